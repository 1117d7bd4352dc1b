package model

// Barang is a catalog item. KodeBarang is the business key.
type Barang struct {
	BaseModel
	KodeBarang string `gorm:"type:varchar(100);uniqueIndex;not null" json:"kode_barang"`
	NamaBarang string `gorm:"type:varchar(255);not null" json:"nama_barang"`
	HSCode     string `gorm:"type:varchar(10);index;not null" json:"hs_code"`
	Satuan     string `gorm:"type:varchar(50);not null" json:"satuan"`
	Kategori   string `gorm:"type:varchar(100);not null" json:"kategori"`
}

func (Barang) TableName() string {
	return "tbl_barang"
}

// EntityBarang is the audit entity tag for catalog items.
const EntityBarang = "Barang"
