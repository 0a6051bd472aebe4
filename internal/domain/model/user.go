package model

type User struct {
	UserID    uint    `gorm:"primaryKey" json:"user_id"`
	UserName  string  `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail string  `gorm:"unique;not null;type:varchar(50)" json:"user_email"`
	IsStaff   bool    `gorm:"not null;default:false" json:"is_staff"`
	Orders    []Order `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"orders,omitempty"` // 一對多，級聯刪除
	BaseModel
}

// Actor 請求身分，由外層服務驗證後帶入，這裡只看擁有權與是否為管理員
type Actor struct {
	UserID  uint
	IsStaff bool
}

// CanActOn 擁有者本人或管理員
func (a Actor) CanActOn(ownerID uint) bool {
	return a.IsStaff || a.UserID == ownerID
}
