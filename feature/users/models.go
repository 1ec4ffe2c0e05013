package users

// UserInfo mirrors one row of the users table. All columns are nullable in
// the source data, so every field is a pointer; missing values serialize as
// JSON null.
type UserInfo struct {
	Email *string `json:"email" gorm:"column:email"`
	Phone *string `json:"phone" gorm:"column:phone"`
	QQ    *string `json:"qq" gorm:"column:qq"`
}

// TableName maps the model onto the fixed users table.
func (UserInfo) TableName() string {
	return "users"
}

// Stats aggregates the record counts reported by the stats endpoint.
type Stats struct {
	TotalRecords int64 `json:"total_records"`
	UniquePhones int64 `json:"unique_phones"`
	UniqueQQs    int64 `json:"unique_qqs"`
	UniqueEmails int64 `json:"unique_emails"`
}
