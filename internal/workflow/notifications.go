package workflow

// Действия рабочего процесса, по которым рассылаются уведомления.
const (
	ActionCreated   = "created"
	ActionAssigned  = "assigned"
	ActionCompleted = "completed"
	ActionRejected  = "rejected"
	ActionApproved  = "approved"
	ActionClosed    = "closed"
)

var notificationRecipients = map[string][]Role{
	ActionCreated:   {RoleAdmin},
	ActionAssigned:  {RoleTechnician},
	ActionCompleted: {RoleHeadTechnician}, // на проверку Head Technician
	ActionRejected:  {RoleTechnician},
	ActionApproved:  {RoleRequester, RoleTechnician},
	ActionClosed:    {RoleRequester},
}

// NotificationRecipients возвращает роли, которые нужно уведомить после
// действия рабочего процесса. Неизвестное действие — пустой список.
// Само ядро доставку не выполняет, только определяет адресатов.
func NotificationRecipients(action string) []Role {
	recipients, ok := notificationRecipients[action]
	if !ok {
		return []Role{}
	}
	out := make([]Role, len(recipients))
	copy(out, recipients)
	return out
}
