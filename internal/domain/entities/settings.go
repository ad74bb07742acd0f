package entities

// Setting keys
const (
	SettingAssemblyAIKey = "assemblyAIKey"
	SettingPantryID      = "pantryId"
)

// Setting is a single persisted key/value pair
type Setting struct {
	Key   string `json:"key" gorm:"type:varchar(64);primaryKey"`
	Value string `json:"value" gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// KeyBackup is the document exported to and imported from a key backup file
type KeyBackup struct {
	AssemblyAIKey string `json:"assemblyAIKey,omitempty"`
	PantryID      string `json:"pantryId,omitempty"`
}
