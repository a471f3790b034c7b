package workflow

import "fmt"

// transitionKey — переход задаётся именно парой (откуда, куда), а не только
// исходным статусом: из одного и того же статуса разные роли уходят в разные
// стороны. Например, из Pending вперёд или назад может двигать только
// Head Technician, остальные роли статус Pending не трогают вообще.
type transitionKey struct {
	From Status
	To   Status
}

// statusTransitions — таблица разрешённых переходов.
// Отсутствие пары означает запрет для всех ролей (default-deny).
//
// Жизненный цикл наряда:
//  1. Requester создаёт наряд → Open
//  2. Admin назначает техника → In Progress
//  3. Technician отчитывается о работе → Pending
//  4. Head Technician проверяет: отклонил → In Progress, принял → Completed
//  5. Admin закрывает → Closed
var statusTransitions = map[transitionKey]map[Role]bool{
	// Создание/правка ещё открытого наряда (статус не меняется)
	{StatusOpen, StatusOpen}: {RoleRequester: true, RoleAdmin: true},

	// Admin назначает техника
	{StatusOpen, StatusInProgress}: {RoleAdmin: true},

	// Admin отменяет открытый наряд
	{StatusOpen, StatusCanceled}: {RoleAdmin: true},

	// Техник закончил работу (Admin тоже может передвинуть)
	{StatusInProgress, StatusPending}: {RoleTechnician: true, RoleAdmin: true},

	// Head Technician отклоняет и возвращает в работу
	{StatusPending, StatusInProgress}: {RoleHeadTechnician: true},

	// Head Technician принимает работу
	{StatusPending, StatusCompleted}: {RoleHeadTechnician: true},

	// Admin закрывает принятый наряд
	{StatusCompleted, StatusClosed}: {RoleAdmin: true},

	// Admin возвращает принятый наряд в работу на доделку
	{StatusCompleted, StatusInProgress}: {RoleAdmin: true},
}

// IsTransitionAllowed проверяет, разрешён ли переход from→to для роли.
// Неизвестная пара или роль — false.
func IsTransitionAllowed(from, to Status, role Role) bool {
	return statusTransitions[transitionKey{from, to}][role]
}

// AllowedNextStatuses возвращает статусы, в которые роль может перевести
// наряд из текущего статуса. Порядок соответствует жизненному циклу.
func AllowedNextStatuses(current Status, role Role) []Status {
	allowed := make([]Status, 0, 3)
	for _, to := range allStatuses {
		if IsTransitionAllowed(current, to, role) {
			allowed = append(allowed, to)
		}
	}
	return allowed
}

// TransitionNotAllowedError — запрошенный переход не разрешён для роли.
// HTTP-слой отдаёт его клиенту как 403.
type TransitionNotAllowedError struct {
	From Status
	To   Status
	Role Role
}

func (e *TransitionNotAllowedError) Error() string {
	return fmt.Sprintf("переход статуса из '%s' в '%s' не разрешён для роли '%s'", e.From, e.To, e.Role)
}

// ValidateStatusTransition — единственные "ворота" на запись: любой код,
// меняющий статус наряда, обязан вызвать её до записи и прервать всё
// обновление целиком при ошибке.
func ValidateStatusTransition(from, to Status, role Role) error {
	if !IsTransitionAllowed(from, to, role) {
		return &TransitionNotAllowedError{From: from, To: to, Role: role}
	}
	return nil
}
