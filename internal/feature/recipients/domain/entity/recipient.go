// Package entity はrecipientsフィーチャーのドメインエンティティを定義します。
package entity

// Recipient は購読の受取人（配達先住所を持つ人物）を表します。
type Recipient struct {
	ID        uint   `gorm:"primaryKey;column:recipient_id" json:"id"`
	FullName  string `gorm:"size:255;not null" json:"fullName"`
	Street    string `gorm:"size:255;not null" json:"street"`
	House     string `gorm:"size:10;not null" json:"house"`
	Apartment string `gorm:"size:10" json:"apartment,omitempty"`
}

// TableName returns the table name for GORM.
func (Recipient) TableName() string {
	return "recipients"
}
