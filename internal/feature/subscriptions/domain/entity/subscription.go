// Package entity はsubscriptionsフィーチャーのドメインエンティティを定義します。
package entity

// Subscription は受取人と刊行物を結ぶ購読を表します。
// 参照は外部キー制約なしのソフト参照で、整合性はユースケース層が検証します。
type Subscription struct {
	ID               uint   `gorm:"primaryKey;column:subscription_id" json:"id"`
	RecipientID      uint   `gorm:"not null;index" json:"recipientId"`
	PublicationIndex string `gorm:"size:10;not null;index" json:"publicationIndex"`

	// DurationMonths is one of 1, 3 or 6.
	DurationMonths int `gorm:"not null" json:"durationMonths"`

	StartMonth int `gorm:"not null" json:"startMonth"`
	StartYear  int `gorm:"not null;index:idx_subscriptions_start,priority:1" json:"startYear"`
}

// TableName returns the table name for GORM.
func (Subscription) TableName() string {
	return "subscriptions"
}
