// Package entity はpublicationsフィーチャーのドメインエンティティを定義します。
package entity

// PublicationType is the closed set of publication kinds.
type PublicationType string

const (
	TypeNewspaper PublicationType = "newspaper"
	TypeMagazine  PublicationType = "magazine"
)

// Valid reports whether t is a known publication type.
func (t PublicationType) Valid() bool {
	switch t {
	case TypeNewspaper, TypeMagazine:
		return true
	}
	return false
}

// Publication は定期刊行物（新聞・雑誌）を表します。
// Indexは郵便購読の刊行物インデックスで、主キーとして使用されます。
type Publication struct {
	Index       string          `gorm:"primaryKey;size:10;column:publication_index" json:"index"`
	Type        PublicationType `gorm:"size:16;not null;column:publication_type" json:"type"`
	Title       string          `gorm:"size:255;not null;column:publication_title" json:"title"`
	MonthlyCost float64         `gorm:"type:decimal(10,2);not null" json:"monthlyCost"`
}

// TableName returns the table name for GORM.
func (Publication) TableName() string {
	return "publications"
}
