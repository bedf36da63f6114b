package database

import (
	"time"

	"gorm.io/datatypes"
)

// ProfileID 是唯一一条 Profile 记录的主键。
const ProfileID uint = 1

// 经历类型。
const (
	ExperienceWork          = "work"
	ExperienceEducation     = "education"
	ExperienceCertification = "certification"
)

// Profile 表示站点主人的基本信息，表中只保留 ID=ProfileID 的一行。
type Profile struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:100"`
	Title           string `gorm:"size:150"`
	Intro           string `gorm:"type:text"`
	AboutJourney    string `gorm:"type:text"`
	AboutInterests  string `gorm:"type:text"`
	Email           string `gorm:"size:254"`
	Phone           string `gorm:"size:20"`
	Location        string `gorm:"size:100"`
	ExperienceYears string `gorm:"size:20"`
	ProfileImage    string `gorm:"size:512"`
	ResumeFile      string `gorm:"size:512"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TechnicalSkill 是带熟练度的技术技能。
type TechnicalSkill struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	Level     int    `gorm:"check:level >= 0 AND level <= 100"`
	Category  string `gorm:"size:50"`
	IsActive  bool   `gorm:"not null"`
	SortOrder int    `gorm:"column:sort_order;not null"`
	CreatedAt time.Time
}

// ProfessionalSkill 是软技能。
type ProfessionalSkill struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100"`
	Icon        string `gorm:"size:50"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null"`
	SortOrder   int    `gorm:"column:sort_order;not null"`
	CreatedAt   time.Time
}

// Technology 是技术栈条目，可被多个项目引用。
type Technology struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;index"`
	IconURL   string `gorm:"size:512"`
	Category  string `gorm:"size:50"`
	IsActive  bool   `gorm:"not null"`
	SortOrder int    `gorm:"column:sort_order;not null"`
	CreatedAt time.Time
}

// Project 是作品集中的项目。
type Project struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"size:200"`
	Description  string `gorm:"type:text"`
	Image        string `gorm:"size:512"`
	GithubURL    string `gorm:"size:512"`
	LiveURL      string `gorm:"size:512"`
	IsFeatured   bool   `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	SortOrder    int    `gorm:"column:sort_order;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Technologies []Technology `gorm:"many2many:project_technologies;constraint:OnDelete:CASCADE"`
}

// Experience 表示工作、教育或证书经历。
type Experience struct {
	ID             uint           `gorm:"primaryKey"`
	Title          string         `gorm:"size:200"`
	Company        string         `gorm:"size:200"`
	Location       string         `gorm:"size:100"`
	StartDate      datatypes.Date `gorm:"index"`
	EndDate        *datatypes.Date
	IsCurrent      bool           `gorm:"not null"`
	Description    string         `gorm:"type:text"`
	ExperienceType string         `gorm:"size:20;index"`
	IsActive       bool           `gorm:"not null"`
	SortOrder      int            `gorm:"column:sort_order;not null"`
	CreatedAt      time.Time
}

// Period 返回展示用的年份区间，不落库。
func (e Experience) Period() string {
	start := time.Time(e.StartDate).Format("2006")
	switch {
	case e.IsCurrent:
		return start + " - Present"
	case e.EndDate != nil:
		return start + " - " + time.Time(*e.EndDate).Format("2006")
	default:
		return start
	}
}

// SocialLink 是社交平台链接。
type SocialLink struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50"`
	URL       string `gorm:"size:512"`
	Icon      string `gorm:"size:50"`
	IsActive  bool   `gorm:"not null"`
	SortOrder int    `gorm:"column:sort_order;not null"`
	CreatedAt time.Time
}

// ContactMessage 是访客通过联系表单提交的留言。
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100"`
	Email     string    `gorm:"size:254"`
	Subject   string    `gorm:"size:200"`
	Message   string    `gorm:"type:text"`
	IsRead    bool      `gorm:"not null;index"`
	IsReplied bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

// SeedMarker 记录某类实体已完成初始数据填充，避免被清空后再次填充。
type SeedMarker struct {
	Entity   string `gorm:"primaryKey;size:64"`
	SeededAt time.Time
}
