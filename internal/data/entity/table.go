package entity

type TableStatus string

const (
	TableStatusAvailable   TableStatus = "available"
	TableStatusOccupied    TableStatus = "occupied"
	TableStatusReserved    TableStatus = "reserved"
	TableStatusMaintenance TableStatus = "maintenance"
)

type TableType string

const (
	TableTypeSingle  TableType = "single"
	TableTypeDouble  TableType = "double"
	TableTypeFamily  TableType = "family"
	TableTypeSpecial TableType = "special"
	TableTypeCustom  TableType = "custom"
)

type Table struct {
	BaseNoDelete
	Name        string      `db:"name"`
	Capacity    int         `db:"capacity"`
	Type        TableType   `db:"type"`
	Status      TableStatus `db:"status"`
	Description *string     `db:"description"`
	ImageURL    *string     `db:"image_url"`
	IsActive    bool        `db:"is_active"`
}
