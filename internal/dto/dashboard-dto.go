package dto

// StatusCountsDTO — количество нарядов в каждом статусе.
type StatusCountsDTO struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
	Completed  int `json:"completed"`
	Closed     int `json:"closed"`
}

type AverageCompletionTimeDTO struct {
	Hours         float64 `json:"hours"`
	FormattedText string  `json:"formatted_text"`
}

type DailyWorkOrderPointDTO struct {
	Date      string `json:"date"`
	DayName   string `json:"day_name"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

type PriorityDistributionDTO struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Other    int `json:"other"`
}

type WorkOrdersByAssigneeDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DashboardStatsDTO struct {
	StatusCounts          StatusCountsDTO           `json:"status_counts"`
	AverageCompletionTime *AverageCompletionTimeDTO `json:"average_completion_time,omitempty"`
	DailyWorkOrders       []DailyWorkOrderPointDTO  `json:"daily_work_orders"`
	PriorityDistribution  PriorityDistributionDTO   `json:"priority_distribution"`
	OverdueCount          int                       `json:"overdue_count"`
	WorkOrdersByAssignee  []WorkOrdersByAssigneeDTO `json:"work_orders_by_assignee"`
}
