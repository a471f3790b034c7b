package events

// WorkOrderActionEvent публикуется сервисом нарядов после каждого действия
// рабочего процесса (создание, назначение, завершение, отклонение,
// подтверждение, закрытие). Слушатели раскладывают его в уведомления.
type WorkOrderActionEvent struct {
	Action         string // одно из workflow.Action*
	WorkOrderID    string
	WorkOrderTitle string
	TriggeredBy    string // имя пользователя, совершившего действие

	// Персональные адресаты: назначенный техник и автор заявки,
	// если у действия они есть.
	AssignedTo *string
	CreatedBy  *string
}

func (e WorkOrderActionEvent) Name() string {
	return "workorder." + e.Action
}

// EventNames — все имена событий нарядов для подписки слушателей.
func EventNames() []string {
	return []string{
		"workorder.created",
		"workorder.assigned",
		"workorder.completed",
		"workorder.rejected",
		"workorder.approved",
		"workorder.closed",
	}
}
