// Package store 封装作品集数据的查询、过滤与整表替换。
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"portfolio/internal/database"
	"portfolio/internal/seed"
)

var (
	// ErrNotFound 表示记录不存在或已下线。
	ErrNotFound = errors.New("record not found")
	// ErrUnknownTechnology 表示项目引用了不存在的技术名称。
	ErrUnknownTechnology = errors.New("unknown technology")
)

// Store 基于 GORM 提供作品集的读写操作。
type Store struct {
	db *gorm.DB
}

// New 构造 Store。
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ProjectFilter 描述项目列表的可选过滤条件。
type ProjectFilter struct {
	FeaturedOnly bool
	// Limit 大于 0 时截断排序后的结果。
	Limit int
}

// ExperienceFilter 描述经历列表的可选过滤条件。
type ExperienceFilter struct {
	Type string
}

// MessageFilter 描述留言列表的可选过滤条件。
type MessageFilter struct {
	UnreadOnly bool
}

// MessageFlags 是留言可由站点主人修改的标记，nil 表示不修改。
type MessageFlags struct {
	IsRead    *bool
	IsReplied *bool
}

// ProjectInput 是整表替换时的一条项目，Technologies 按名称关联已有技术。
type ProjectInput struct {
	Project      database.Project
	Technologies []string
}

// SkillsReplacement 中为 nil 的列表保持不变。
type SkillsReplacement struct {
	Technical    *[]database.TechnicalSkill
	Professional *[]database.ProfessionalSkill
	Technologies *[]database.Technology
}

// ContactUpdate 描述联系方式更新：Profile 为需要写入的 profile 字段，Social 非 nil 时整表替换社交链接。
type ContactUpdate struct {
	Profile map[string]any
	Social  *[]database.SocialLink
}

func activeTechnologies(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("sort_order ASC").Order("name ASC")
}

// ListProjects 返回上线的项目：精选优先，其次按 order，再按创建时间倒序。
func (s *Store) ListProjects(ctx context.Context, filter ProjectFilter) ([]database.Project, error) {
	query := s.db.WithContext(ctx).
		Preload("Technologies", activeTechnologies).
		Where("is_active = ?", true)
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	query = query.
		Order("is_featured DESC").
		Order("sort_order ASC").
		Order("created_at DESC").
		Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	projects := make([]database.Project, 0)
	if err := query.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetActiveProject 按 ID 查找上线的项目。
func (s *Store) GetActiveProject(ctx context.Context, id uint) (*database.Project, error) {
	var project database.Project
	err := s.db.WithContext(ctx).
		Preload("Technologies", activeTechnologies).
		Where("id = ? AND is_active = ?", id, true).
		First(&project).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return &project, nil
}

// ListExperience 返回上线的经历，按 order 升序、开始日期倒序。
func (s *Store) ListExperience(ctx context.Context, filter ExperienceFilter) ([]database.Experience, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if filter.Type != "" {
		query = query.Where("experience_type = ?", filter.Type)
	}

	items := make([]database.Experience, 0)
	if err := query.
		Order("sort_order ASC").
		Order("start_date DESC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	return items, nil
}

// ListTechnicalSkills 返回上线的技术技能。
func (s *Store) ListTechnicalSkills(ctx context.Context) ([]database.TechnicalSkill, error) {
	items := make([]database.TechnicalSkill, 0)
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("level DESC").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list technical skills: %w", err)
	}
	return items, nil
}

// ListProfessionalSkills 返回上线的软技能。
func (s *Store) ListProfessionalSkills(ctx context.Context) ([]database.ProfessionalSkill, error) {
	items := make([]database.ProfessionalSkill, 0)
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list professional skills: %w", err)
	}
	return items, nil
}

// ListTechnologies 返回上线的技术栈。
func (s *Store) ListTechnologies(ctx context.Context) ([]database.Technology, error) {
	items := make([]database.Technology, 0)
	if err := activeTechnologies(s.db.WithContext(ctx)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	return items, nil
}

// ListSocialLinks 返回上线的社交链接。
func (s *Store) ListSocialLinks(ctx context.Context) ([]database.SocialLink, error) {
	items := make([]database.SocialLink, 0)
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	return items, nil
}

// GetProfile 读取唯一的 Profile；缺失时以默认内容创建（并发安全）。
func (s *Store) GetProfile(ctx context.Context) (*database.Profile, error) {
	var profile database.Profile
	err := s.db.WithContext(ctx).First(&profile, database.ProfileID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	if err := seed.EnsureProfile(ctx, s.db); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).First(&profile, database.ProfileID).Error; err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile 只写入 updates 中给出的列，返回更新后的 Profile。
func (s *Store) UpdateProfile(ctx context.Context, updates map[string]any) (*database.Profile, error) {
	if _, err := s.GetProfile(ctx); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&database.Profile{ID: database.ProfileID}).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.GetProfile(ctx)
}

// UpdateContactInfo 在同一事务内更新 profile 联系方式与社交链接。
func (s *Store) UpdateContactInfo(ctx context.Context, update ContactUpdate) error {
	if _, err := s.GetProfile(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(update.Profile) > 0 {
			if err := tx.Model(&database.Profile{ID: database.ProfileID}).Updates(update.Profile).Error; err != nil {
				return fmt.Errorf("update contact fields: %w", err)
			}
		}
		if update.Social != nil {
			if err := replaceAll(tx, *update.Social); err != nil {
				return fmt.Errorf("replace social links: %w", err)
			}
		}
		return nil
	})
}

// ReplaceSkills 在同一事务内整表替换给出的技能列表。
func (s *Store) ReplaceSkills(ctx context.Context, r SkillsReplacement) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.Technical != nil {
			if err := replaceAll(tx, *r.Technical); err != nil {
				return fmt.Errorf("replace technical skills: %w", err)
			}
		}
		if r.Professional != nil {
			if err := replaceAll(tx, *r.Professional); err != nil {
				return fmt.Errorf("replace professional skills: %w", err)
			}
		}
		if r.Technologies != nil {
			if err := replaceTechnologies(tx, *r.Technologies); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceProjects 在同一事务内删除全部项目并按顺序插入新列表。
func (s *Store) ReplaceProjects(ctx context.Context, inputs []ProjectInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byName, err := technologiesByName(tx, inputs)
		if err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM project_technologies").Error; err != nil {
			return fmt.Errorf("clear project technologies: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&database.Project{}).Error; err != nil {
			return fmt.Errorf("delete projects: %w", err)
		}

		for i := range inputs {
			project := inputs[i].Project
			project.ID = 0
			project.Technologies = nil
			seen := make(map[uint]struct{})
			for _, name := range inputs[i].Technologies {
				tech := byName[name]
				if _, dup := seen[tech.ID]; dup {
					continue
				}
				seen[tech.ID] = struct{}{}
				project.Technologies = append(project.Technologies, tech)
			}
			if err := tx.Omit("Technologies.*").Create(&project).Error; err != nil {
				return fmt.Errorf("create project %q: %w", project.Title, err)
			}
		}
		return nil
	})
}

// ReplaceExperience 在同一事务内整表替换经历。
func (s *Store) ReplaceExperience(ctx context.Context, items []database.Experience) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, items); err != nil {
			return fmt.Errorf("replace experience: %w", err)
		}
		return nil
	})
}

// ReplaceSocialLinks 在同一事务内整表替换社交链接。
func (s *Store) ReplaceSocialLinks(ctx context.Context, items []database.SocialLink) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, items); err != nil {
			return fmt.Errorf("replace social links: %w", err)
		}
		return nil
	})
}

// replaceAll 删除 T 对应表的全部行并插入 rows，调用方传入的行不应带 ID。
func replaceAll[T any](tx *gorm.DB, rows []T) error {
	var zero T
	if err := tx.Where("1 = 1").Delete(&zero).Error; err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	return nil
}

type projectTechnologyLink struct {
	ProjectID uint
	Name      string
}

// replaceTechnologies 替换技术栈，并把原有项目关联按名称迁移到新记录上。
func replaceTechnologies(tx *gorm.DB, techs []database.Technology) error {
	var links []projectTechnologyLink
	if err := tx.Table("project_technologies").
		Select("project_technologies.project_id AS project_id, technologies.name AS name").
		Joins("JOIN technologies ON technologies.id = project_technologies.technology_id").
		Scan(&links).Error; err != nil {
		return fmt.Errorf("load project technology links: %w", err)
	}

	if err := tx.Exec("DELETE FROM project_technologies").Error; err != nil {
		return fmt.Errorf("clear project technologies: %w", err)
	}
	if err := replaceAll(tx, techs); err != nil {
		return fmt.Errorf("replace technologies: %w", err)
	}

	if len(links) == 0 || len(techs) == 0 {
		return nil
	}

	ids := make(map[string]uint, len(techs))
	for _, t := range techs {
		if _, ok := ids[t.Name]; !ok {
			ids[t.Name] = t.ID
		}
	}

	type pair struct{ project, tech uint }
	seen := make(map[pair]struct{})
	rows := make([]map[string]any, 0, len(links))
	for _, l := range links {
		techID, ok := ids[l.Name]
		if !ok {
			continue
		}
		key := pair{l.ProjectID, techID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, map[string]any{"project_id": l.ProjectID, "technology_id": techID})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Table("project_technologies").Create(rows).Error; err != nil {
		return fmt.Errorf("relink project technologies: %w", err)
	}
	return nil
}

// technologiesByName 解析项目引用的全部技术名称，名称重复时取 ID 最小的一条。
func technologiesByName(tx *gorm.DB, inputs []ProjectInput) (map[string]database.Technology, error) {
	names := make([]string, 0)
	for _, in := range inputs {
		names = append(names, in.Technologies...)
	}
	result := make(map[string]database.Technology)
	if len(names) == 0 {
		return result, nil
	}

	var techs []database.Technology
	if err := tx.Where("name IN ?", names).Order("id ASC").Find(&techs).Error; err != nil {
		return nil, fmt.Errorf("resolve technologies: %w", err)
	}
	for _, t := range techs {
		if _, ok := result[t.Name]; !ok {
			result[t.Name] = t
		}
	}
	for _, name := range names {
		if _, ok := result[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTechnology, name)
		}
	}
	return result, nil
}

// CreateContactMessage 保存一条访客留言，成功后 msg.ID 被回填。
func (s *Store) CreateContactMessage(ctx context.Context, msg *database.ContactMessage) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// ListContactMessages 按创建时间倒序返回留言。
func (s *Store) ListContactMessages(ctx context.Context, filter MessageFilter) ([]database.ContactMessage, error) {
	query := s.db.WithContext(ctx)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	items := make([]database.ContactMessage, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return items, nil
}

// UpdateContactMessageFlags 修改留言的已读/已回复标记。
func (s *Store) UpdateContactMessageFlags(ctx context.Context, id uint, flags MessageFlags) (*database.ContactMessage, error) {
	var msg database.ContactMessage
	err := s.db.WithContext(ctx).First(&msg, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("get contact message %d: %w", id, err)
	}

	updates := make(map[string]any, 2)
	if flags.IsRead != nil {
		updates["is_read"] = *flags.IsRead
	}
	if flags.IsReplied != nil {
		updates["is_replied"] = *flags.IsReplied
	}
	if len(updates) == 0 {
		return &msg, nil
	}
	if err := s.db.WithContext(ctx).Model(&msg).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update contact message %d: %w", id, err)
	}
	return &msg, nil
}
