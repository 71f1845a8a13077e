package entity

// Lecturer is reference data about a contracted lecturer. DefaultHourlyRate
// prefills new claims when the submission carries no rate of its own.
type Lecturer struct {
	ID                int64   `json:"id"`
	FullName          string  `json:"full_name"`
	IDNumber          string  `json:"id_number"`
	Email             string  `json:"email"`
	DefaultHourlyRate float64 `json:"default_hourly_rate"`
	BankName          string  `json:"bank_name"`
	BankAccountNumber string  `json:"bank_account_number"`
}
