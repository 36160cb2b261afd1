package entities

// Account is a stored credential record.
type Account struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:text;not null" json:"password"`
	Status   bool   `gorm:"not null;default:true" json:"status"`
}

func (Account) TableName() string {
	return "accounts"
}

// NewAccount holds the validated fields required to create an Account.
// Status is not part of the input; new accounts start active.
type NewAccount struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountStats summarises the accounts table.
type AccountStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}
