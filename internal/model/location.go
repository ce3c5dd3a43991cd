package model

// 位置参考表：国家 -> 州/省 -> 城市 三级层级
// 用户表通过 country_id / state_id / city_id 引用这些表

// Country 国家
type Country struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(64);not null;comment:国家名称"`
	Code string `gorm:"type:varchar(8);comment:国家代码"`
}

func (Country) TableName() string { return "country" }

// State 州/省，归属某个国家
type State struct {
	ID        uint   `gorm:"primaryKey"`
	CountryID uint   `gorm:"not null;index;comment:所属国家ID"`
	Name      string `gorm:"type:varchar(64);not null;comment:州/省名称"`
}

func (State) TableName() string { return "state" }

// City 城市，归属某个州/省
type City struct {
	ID      uint   `gorm:"primaryKey"`
	StateID uint   `gorm:"not null;index;comment:所属州/省ID"`
	Name    string `gorm:"type:varchar(64);not null;comment:城市名称"`
}

func (City) TableName() string { return "city" }
