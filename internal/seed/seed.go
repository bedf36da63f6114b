// Package seed 负责首次启动时写入演示内容。
//
// 每类实体只会被填充一次：填充完成后写入 SeedMarker，之后即使站点主人清空了该表也不会再次填充。
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio/internal/database"
)

// 实体名称，同时作为 SeedMarker 的主键。
const (
	EntityProfile            = "profile"
	EntityTechnicalSkills    = "technical_skills"
	EntityProfessionalSkills = "professional_skills"
	EntityTechnologies       = "technologies"
	EntityProjects           = "projects"
	EntityExperience         = "experience"
	EntitySocialLinks        = "social_links"
)

const (
	lockKey = "portfolio:seed:lock"
	lockTTL = 30 * time.Second
)

// Report 汇总一次 Run 的结果。
type Report struct {
	// Seeded 是本次写入了演示数据的实体。
	Seeded []string
	// Marked 是表中已有数据、仅补写标记的实体。
	Marked []string
	// Skipped 是此前已经处理过的实体。
	Skipped []string
	// LockHeld 为 true 表示其他实例正在初始化，本次未执行。
	LockHeld bool
}

// Seeder 按固定顺序初始化各类实体。
type Seeder struct {
	db     *gorm.DB
	locker Locker
	logger *slog.Logger
}

// New 构造 Seeder；locker 为 nil 时不做跨实例互斥。
func New(db *gorm.DB, locker Locker, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, locker: locker, logger: logger}
}

type step struct {
	entity string
	model  any
	insert func(tx *gorm.DB) error
}

func (s *Seeder) steps() []step {
	return []step{
		{EntityProfile, &database.Profile{}, func(tx *gorm.DB) error { return EnsureProfile(tx.Statement.Context, tx) }},
		{EntityTechnicalSkills, &database.TechnicalSkill{}, func(tx *gorm.DB) error { return insertRows(tx, technicalSkills()) }},
		{EntityProfessionalSkills, &database.ProfessionalSkill{}, func(tx *gorm.DB) error { return insertRows(tx, professionalSkills()) }},
		// 技术栈需先于项目写入，项目按名称关联。
		{EntityTechnologies, &database.Technology{}, func(tx *gorm.DB) error { return insertRows(tx, technologies()) }},
		{EntityProjects, &database.Project{}, insertProjects},
		{EntityExperience, &database.Experience{}, func(tx *gorm.DB) error { return insertRows(tx, experience()) }},
		{EntitySocialLinks, &database.SocialLink{}, func(tx *gorm.DB) error { return insertRows(tx, socialLinks()) }},
	}
}

// Run 执行一次初始化，可重复调用。
func (s *Seeder) Run(ctx context.Context) (Report, error) {
	var report Report

	if s.locker != nil {
		release, acquired, err := s.locker.TryLock(ctx, lockKey, lockTTL)
		switch {
		case err != nil:
			// 标记在事务内写入，拿不到锁时仍可安全执行。
			s.logger.Warn("seed lock unavailable, continuing without it", slog.Any("error", err))
		case !acquired:
			s.logger.Info("seed lock held by another instance, skipping")
			report.LockHeld = true
			return report, nil
		default:
			defer release()
		}
	}

	for _, st := range s.steps() {
		outcome, err := s.seedEntity(ctx, st)
		if err != nil {
			return report, err
		}
		switch outcome {
		case outcomeSeeded:
			report.Seeded = append(report.Seeded, st.entity)
		case outcomeMarked:
			report.Marked = append(report.Marked, st.entity)
		default:
			report.Skipped = append(report.Skipped, st.entity)
		}
	}

	s.logger.Info("seed completed",
		slog.Any("seeded", report.Seeded),
		slog.Any("marked", report.Marked),
		slog.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeMarked
	outcomeSeeded
)

func (s *Seeder) seedEntity(ctx context.Context, st step) (outcome, error) {
	result := outcomeSkipped
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var marker database.SeedMarker
		err := tx.Where("entity = ?", st.entity).First(&marker).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("read seed marker: %w", err)
		}

		var count int64
		if err := tx.Model(st.model).Count(&count).Error; err != nil {
			return fmt.Errorf("count rows: %w", err)
		}

		result = outcomeMarked
		if count == 0 {
			if err := st.insert(tx); err != nil {
				return fmt.Errorf("insert seed rows: %w", err)
			}
			result = outcomeSeeded
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&database.SeedMarker{Entity: st.entity, SeededAt: time.Now().UTC()}).Error; err != nil {
			return fmt.Errorf("write seed marker: %w", err)
		}
		return nil
	})
	if err != nil {
		return outcomeSkipped, fmt.Errorf("seed %s: %w", st.entity, err)
	}
	return result, nil
}

// EnsureProfile 在 Profile 不存在时写入默认内容；并发调用只会成功插入一次。
func EnsureProfile(ctx context.Context, db *gorm.DB) error {
	profile := DefaultProfile()
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&profile).Error; err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

func insertRows[T any](tx *gorm.DB, rows []T) error {
	return tx.Create(&rows).Error
}

func insertProjects(tx *gorm.DB) error {
	var techs []database.Technology
	if err := tx.Order("id ASC").Find(&techs).Error; err != nil {
		return fmt.Errorf("load technologies: %w", err)
	}
	byName := make(map[string]database.Technology, len(techs))
	for _, t := range techs {
		if _, ok := byName[t.Name]; !ok {
			byName[t.Name] = t
		}
	}

	for _, sp := range projects() {
		project := sp.project
		for _, name := range sp.technologies {
			// 站点主人可能已改过技术栈，缺失的名称直接跳过。
			if tech, ok := byName[name]; ok {
				project.Technologies = append(project.Technologies, tech)
			}
		}
		if err := tx.Omit("Technologies.*").Create(&project).Error; err != nil {
			return fmt.Errorf("create project %q: %w", project.Title, err)
		}
	}
	return nil
}
