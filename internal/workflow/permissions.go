package workflow

// Permissions — права на конкретный наряд для конкретной роли и статуса.
// Вычисляются заново на каждый запрос, никогда не сохраняются и не кэшируются.
type Permissions struct {
	CanEdit         bool `json:"can_edit"`
	CanChangeStatus bool `json:"can_change_status"`
	CanAssign       bool `json:"can_assign"`
	CanDelete       bool `json:"can_delete"`
	CanView         bool `json:"can_view"`
}

// PermissionsFor вычисляет права по (статус, роль, назначенный техник,
// имя действующего пользователя). Правила кодируют рабочий процесс:
//
//   - Admin: правит всё, кроме закрытых и отменённых; статус и назначение —
//     всегда; удалять может только открытый наряд.
//   - Head Technician: его окно полномочий — проверка на Pending.
//   - Requester: правит и удаляет только пока наряд открыт; статус напрямую
//     не меняет никогда (только создание).
//   - Technician: права есть только на назначенный ему наряд и только
//     в статусе In Progress. Чужой наряд — никаких прав.
//
// Имена сравниваются точно, с учётом регистра, без нормализации.
// CanView всегда true: видимость на уровне списка — забота внешнего слоя.
func PermissionsFor(status Status, role Role, assignedTo, currentUserName string) Permissions {
	perms := Permissions{CanView: true}

	switch role {
	case RoleAdmin:
		perms.CanEdit = status != StatusClosed && status != StatusCanceled
		perms.CanChangeStatus = true
		perms.CanAssign = true
		perms.CanDelete = status == StatusOpen

	case RoleHeadTechnician:
		perms.CanEdit = status == StatusPending
		perms.CanChangeStatus = status == StatusPending

	case RoleRequester:
		perms.CanEdit = status == StatusOpen
		perms.CanDelete = status == StatusOpen

	case RoleTechnician:
		isAssigned := assignedTo == currentUserName
		perms.CanEdit = isAssigned && status == StatusInProgress
		perms.CanChangeStatus = isAssigned && status == StatusInProgress
	}

	// Неизвестная роль: только просмотр.
	return perms
}
