// Пакет workflow — ядро бизнес-правил нарядов на работы (work orders):
// таблица переходов статусов, вычисление прав и адресаты уведомлений.
// Все функции чистые, без состояния и без I/O — их можно безопасно
// вызывать из любого числа обработчиков одновременно.
package workflow

// Status — позиция наряда в жизненном цикле.
// Значения совпадают со строками, хранящимися в БД.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusPending    Status = "Pending"
	StatusCompleted  Status = "Completed"
	StatusClosed     Status = "Closed"
	StatusCanceled   Status = "Canceled"
)

// Role — класс прав действующего пользователя.
type Role string

const (
	RoleRequester      Role = "Requester"
	RoleTechnician     Role = "Technician"
	RoleAdmin          Role = "Admin"
	RoleHeadTechnician Role = "Head Technician"
)

var allStatuses = []Status{
	StatusOpen,
	StatusInProgress,
	StatusPending,
	StatusCompleted,
	StatusClosed,
	StatusCanceled,
}

var allRoles = []Role{
	RoleRequester,
	RoleTechnician,
	RoleAdmin,
	RoleHeadTechnician,
}

// AllStatuses возвращает копию списка статусов в порядке жизненного цикла.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// AllRoles возвращает копию списка ролей.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseStatus возвращает Status для известной строки, иначе "".
func ParseStatus(s string) Status {
	for _, st := range allStatuses {
		if string(st) == s {
			return st
		}
	}
	return ""
}

// ParseRole возвращает Role для известной строки, иначе "".
func ParseRole(s string) Role {
	for _, r := range allRoles {
		if string(r) == s {
			return r
		}
	}
	return ""
}

// IsTerminal — у Closed и Canceled нет исходящих переходов.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCanceled
}
