package employee

type Employee struct {
	ID        uint   `gorm:"primaryKey"`
	LastName  string `gorm:"not null"`
	FirstName string `gorm:"not null"`
}

func (Employee) TableName() string {
	return "employee"
}
