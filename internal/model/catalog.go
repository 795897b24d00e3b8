package model

import "time"

// CatalogRecord GISource 库内事件记录（外部系统维护，只读）
// Description 中嵌有 "URL: ..." 与 "Deadline: ..."，用于与人工核验表对齐
type CatalogRecord struct {
	EventID      string     `gorm:"column:Event_ID;primaryKey" json:"event_id"`
	UniversityCN string     `gorm:"column:University_CN" json:"university_cn"`
	UniversityEN string     `gorm:"column:University_EN" json:"university_en"`
	CountryCN    string     `gorm:"column:Country_CN" json:"country_cn"`
	JobCN        string     `gorm:"column:Job_CN" json:"job_cn"`   // 职位类型（中文）
	JobEN        string     `gorm:"column:Job_EN" json:"job_en"`   // 职位类型（英文）
	Description  string     `gorm:"column:Description;type:text" json:"description"`
	TitleCN      string     `gorm:"column:Title_CN" json:"title_cn"`
	TitleEN      string     `gorm:"column:Title_EN" json:"title_en"`
	Date         *time.Time `gorm:"column:Date" json:"date"` // 入库日期，为空视为无法解析
	IsPublic     bool       `gorm:"column:IS_Public" json:"is_public"`
	IsDeleted    bool       `gorm:"column:IS_Deleted" json:"is_deleted"`
}

func (CatalogRecord) TableName() string { return "GISource" }
