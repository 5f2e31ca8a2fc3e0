package replay

import "time"

// ConfigRecord is the stored form of a ComparisonConfig. A record with an
// empty OperationName applies to every operation of the app; a record naming
// an operation overrides it for that operation.
type ConfigRecord struct {
	ID               uint                  `gorm:"column:id;primaryKey;autoIncrement"`
	AppID            string                `gorm:"column:app_id;index"`
	OperationName    string                `gorm:"column:operation_name"`
	IgnoreCategories []string              `gorm:"column:ignore_categories;serializer:json"`
	IgnoreKeys       []string              `gorm:"column:ignore_keys;serializer:json"`
	Inclusions       [][]string            `gorm:"column:inclusions;serializer:json"`
	Exclusions       [][]string            `gorm:"column:exclusions;serializer:json"`
	ListSort         map[string][]string   `gorm:"column:list_sort;serializer:json"`
	Reference        map[string][]string   `gorm:"column:reference;serializer:json"`
	Decompress       map[string][][]string `gorm:"column:decompress;serializer:json"`
	UpdatedAt        time.Time             `gorm:"column:updated_at"`
}

// TableName overrides the table name used by GORM.
func (ConfigRecord) TableName() string {
	return "replay_compare_configs"
}

// ToConfig converts the record into a ComparisonConfig.
func (r ConfigRecord) ToConfig() *ComparisonConfig {
	return &ComparisonConfig{
		IgnoreCategories: r.IgnoreCategories,
		IgnoreKeys:       r.IgnoreKeys,
		Inclusions:       r.Inclusions,
		Exclusions:       r.Exclusions,
		ListSort:         r.ListSort,
		Reference:        r.Reference,
		Decompress:       r.Decompress,
	}
}
