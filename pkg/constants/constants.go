package constants

// --- ПРИОРИТЕТЫ (совпадают со значениями в БД) ---
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

var Priorities = []string{
	PriorityCritical,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
}

func IsValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// --- СТАТУСЫ АКТИВОВ ---
const (
	AssetOperational = "Operational"
	AssetDowntime    = "Downtime"
	AssetMaintenance = "Maintenance"
)

// --- ТИПЫ АКТИВОВ (уровни иерархии) ---
const (
	AssetTypeSite      = "Site"
	AssetTypeLine      = "Line"
	AssetTypeFacility  = "Facility"
	AssetTypeMachine   = "Machine"
	AssetTypeEquipment = "Equipment"
)

var AssetTypes = []string{
	AssetTypeSite,
	AssetTypeLine,
	AssetTypeFacility,
	AssetTypeMachine,
	AssetTypeEquipment,
}

// Префиксы ID по типу актива.
var AssetIDPrefixes = map[string]string{
	AssetTypeSite:      "SITE",
	AssetTypeLine:      "LINE",
	AssetTypeFacility:  "FAC",
	AssetTypeMachine:   "MCH",
	AssetTypeEquipment: "EQP",
}

// --- СТАТУС ЗАЯВКИ ПОСЛЕ КОНВЕРТАЦИИ ---
const RequestStatusConverted = "Converted to WO"

// --- ПРИЧИНЫ ПРОСТОЯ ---
var DowntimeReasons = []string{
	"Breakdown",
	"Planned Maintenance",
	"Setup/Changeover",
	"Material Shortage",
	"Operator Unavailable",
	"Quality Issue",
	"External Factor",
	"Other",
}

func IsValidDowntimeReason(reason string) bool {
	for _, r := range DowntimeReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// MeterType — справочник типов счётчиков.
type MeterType struct {
	Type string `json:"type"`
	Unit string `json:"unit"`
}

var MeterTypes = []MeterType{
	{Type: "Runtime Hours", Unit: "hours"},
	{Type: "Cycle Count", Unit: "cycles"},
	{Type: "Production Count", Unit: "units"},
	{Type: "Temperature", Unit: "°C"},
	{Type: "Pressure", Unit: "bar"},
	{Type: "Vibration", Unit: "mm/s"},
	{Type: "Energy Consumption", Unit: "kWh"},
	{Type: "Fuel Level", Unit: "liters"},
	{Type: "Odometer", Unit: "km"},
	{Type: "Other", Unit: "-"},
}
