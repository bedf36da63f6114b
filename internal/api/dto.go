package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"portfolio/internal/database"
	"portfolio/internal/store"
)

const (
	dateLayout    = "2006-01-02"
	fallbackPhone = "+1 (234) 567-890"
)

// ---- 响应 ----

type profileResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Intro           string    `json:"intro"`
	AboutJourney    string    `json:"about_journey"`
	AboutInterests  string    `json:"about_interests"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	ExperienceYears string    `json:"experience_years"`
	ProfileImage    *string   `json:"profile_image"`
	ProfileImageURL string    `json:"profile_image_url"`
	ResumeFile      *string   `json:"resume_file"`
	ResumeURL       *string   `json:"resume_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type technicalSkillItem struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Category string `json:"category"`
}

type professionalSkillItem struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type technologyItem struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

type skillsResponse struct {
	Technical    []technicalSkillItem    `json:"technical"`
	Professional []professionalSkillItem `json:"professional"`
	Technologies []technologyItem        `json:"technologies"`
}

type projectListItem struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        *string  `json:"image"`
	ImageURL     string   `json:"image_url"`
	GithubURL    string   `json:"github_url"`
	LiveURL      string   `json:"live_url"`
	IsFeatured   bool     `json:"is_featured"`
	Technologies []string `json:"technologies"`
}

type technologyRef struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

type projectDetail struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Image        *string         `json:"image"`
	ImageURL     string          `json:"image_url"`
	GithubURL    string          `json:"github_url"`
	LiveURL      string          `json:"live_url"`
	IsFeatured   bool            `json:"is_featured"`
	IsActive     bool            `json:"is_active"`
	Order        int             `json:"order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Technologies []technologyRef `json:"technologies"`
}

type experienceItem struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	StartDate      string    `json:"start_date"`
	EndDate        *string   `json:"end_date"`
	IsCurrent      bool      `json:"is_current"`
	Description    string    `json:"description"`
	ExperienceType string    `json:"experience_type"`
	IsActive       bool      `json:"is_active"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"created_at"`
	Period         string    `json:"period"`
}

type socialLinkItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

type contactInfoResponse struct {
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Location  string           `json:"location"`
	Social    []socialLinkItem `json:"social"`
	ResumeURL *string          `json:"resume_url"`
}

type contactMessageItem struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	IsReplied bool      `json:"is_replied"`
	CreatedAt time.Time `json:"created_at"`
}

func newProfileResponse(c *gin.Context, media *MediaResolver, p *database.Profile) profileResponse {
	imageURL := media.Resolve(c, p.ProfileImage)
	if imageURL == "" {
		imageURL = profilePlaceholder
	}
	return profileResponse{
		ID:              p.ID,
		Name:            p.Name,
		Title:           p.Title,
		Intro:           p.Intro,
		AboutJourney:    p.AboutJourney,
		AboutInterests:  p.AboutInterests,
		Email:           p.Email,
		Phone:           p.Phone,
		Location:        p.Location,
		ExperienceYears: p.ExperienceYears,
		ProfileImage:    media.ResolvePtr(c, p.ProfileImage),
		ProfileImageURL: imageURL,
		ResumeFile:      media.ResolvePtr(c, p.ResumeFile),
		ResumeURL:       media.ResolvePtr(c, p.ResumeFile),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func newSkillsResponse(technical []database.TechnicalSkill, professional []database.ProfessionalSkill, techs []database.Technology) skillsResponse {
	resp := skillsResponse{
		Technical:    make([]technicalSkillItem, 0, len(technical)),
		Professional: make([]professionalSkillItem, 0, len(professional)),
		Technologies: make([]technologyItem, 0, len(techs)),
	}
	for _, s := range technical {
		resp.Technical = append(resp.Technical, technicalSkillItem{Name: s.Name, Level: s.Level, Category: s.Category})
	}
	for _, s := range professional {
		resp.Professional = append(resp.Professional, professionalSkillItem{Name: s.Name, Icon: s.Icon, Description: s.Description})
	}
	for _, t := range techs {
		resp.Technologies = append(resp.Technologies, technologyItem{Name: t.Name, Icon: t.IconURL, Category: t.Category})
	}
	return resp
}

func projectImageURL(c *gin.Context, media *MediaResolver, p *database.Project) string {
	if u := media.Resolve(c, p.Image); u != "" {
		return u
	}
	return projectPlaceholder + strconv.FormatUint(uint64(p.ID), 10)
}

func newProjectListItem(c *gin.Context, media *MediaResolver, p *database.Project) projectListItem {
	names := make([]string, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		names = append(names, t.Name)
	}
	return projectListItem{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Image:        media.ResolvePtr(c, p.Image),
		ImageURL:     projectImageURL(c, media, p),
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		IsFeatured:   p.IsFeatured,
		Technologies: names,
	}
}

func newProjectDetail(c *gin.Context, media *MediaResolver, p *database.Project) projectDetail {
	techs := make([]technologyRef, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		techs = append(techs, technologyRef{ID: t.ID, Name: t.Name, Icon: t.IconURL, Category: t.Category})
	}
	return projectDetail{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Image:        media.ResolvePtr(c, p.Image),
		ImageURL:     projectImageURL(c, media, p),
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		IsFeatured:   p.IsFeatured,
		IsActive:     p.IsActive,
		Order:        p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Technologies: techs,
	}
}

func newExperienceItem(e *database.Experience) experienceItem {
	item := experienceItem{
		ID:             e.ID,
		Title:          e.Title,
		Company:        e.Company,
		Location:       e.Location,
		StartDate:      time.Time(e.StartDate).Format(dateLayout),
		IsCurrent:      e.IsCurrent,
		Description:    e.Description,
		ExperienceType: e.ExperienceType,
		IsActive:       e.IsActive,
		Order:          e.SortOrder,
		CreatedAt:      e.CreatedAt,
		Period:         e.Period(),
	}
	if e.EndDate != nil {
		end := time.Time(*e.EndDate).Format(dateLayout)
		item.EndDate = &end
	}
	return item
}

func newContactInfoResponse(c *gin.Context, media *MediaResolver, p *database.Profile, links []database.SocialLink) contactInfoResponse {
	phone := p.Phone
	if phone == "" {
		phone = fallbackPhone
	}
	social := make([]socialLinkItem, 0, len(links))
	for _, l := range links {
		social = append(social, socialLinkItem{Name: l.Name, URL: l.URL, Icon: l.Icon})
	}
	return contactInfoResponse{
		Email:     p.Email,
		Phone:     phone,
		Location:  p.Location,
		Social:    social,
		ResumeURL: media.ResolvePtr(c, p.ResumeFile),
	}
}

func newContactMessageItem(m *database.ContactMessage) contactMessageItem {
	return contactMessageItem{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		IsReplied: m.IsReplied,
		CreatedAt: m.CreatedAt,
	}
}

// ---- 请求 ----

type profileUpdateRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=100"`
	Title           *string `json:"title" binding:"omitempty,min=1,max=150"`
	Intro           *string `json:"intro"`
	AboutJourney    *string `json:"about_journey"`
	AboutInterests  *string `json:"about_interests"`
	Email           *string `json:"email" binding:"omitempty,email,max=254"`
	Phone           *string `json:"phone" binding:"omitempty,max=20"`
	Location        *string `json:"location" binding:"omitempty,max=100"`
	ExperienceYears *string `json:"experience_years" binding:"omitempty,max=20"`
	ProfileImage    *string `json:"profile_image" binding:"omitempty,max=512"`
	ResumeFile      *string `json:"resume_file" binding:"omitempty,max=512"`
}

// updates 返回需要写入的列，仅包含请求中出现的字段。
func (r profileUpdateRequest) updates() map[string]any {
	out := make(map[string]any)
	set := func(column string, v *string) {
		if v != nil {
			out[column] = strings.TrimSpace(*v)
		}
	}
	set("name", r.Name)
	set("title", r.Title)
	set("intro", r.Intro)
	set("about_journey", r.AboutJourney)
	set("about_interests", r.AboutInterests)
	set("email", r.Email)
	set("phone", r.Phone)
	set("location", r.Location)
	set("experience_years", r.ExperienceYears)
	set("profile_image", r.ProfileImage)
	set("resume_file", r.ResumeFile)
	return out
}

type technicalSkillInput struct {
	Name     string  `json:"name" binding:"required,notblank,max=100"`
	Level    *int    `json:"level" binding:"required,min=0,max=100"`
	Category *string `json:"category" binding:"omitempty,max=50"`
	IsActive *bool   `json:"is_active"`
	Order    int     `json:"order"`
}

type professionalSkillInput struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Icon        string `json:"icon" binding:"max=50"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	Order       int    `json:"order"`
}

// technologyInput 同时接受 icon_url 与 GET 响应中的 icon 字段。
type technologyInput struct {
	Name     string  `json:"name" binding:"required,notblank,max=100"`
	IconURL  string  `json:"icon_url" binding:"omitempty,url,max=512"`
	Icon     string  `json:"icon" binding:"omitempty,url,max=512"`
	Category *string `json:"category" binding:"omitempty,max=50"`
	IsActive *bool   `json:"is_active"`
	Order    int     `json:"order"`
}

type skillsUpdateRequest struct {
	Technical    *[]technicalSkillInput    `json:"technical" binding:"omitempty,dive"`
	Professional *[]professionalSkillInput `json:"professional" binding:"omitempty,dive"`
	Technologies *[]technologyInput        `json:"technologies" binding:"omitempty,dive"`
}

func (r skillsUpdateRequest) replacement() store.SkillsReplacement {
	var out store.SkillsReplacement
	if r.Technical != nil {
		rows := make([]database.TechnicalSkill, 0, len(*r.Technical))
		for _, in := range *r.Technical {
			rows = append(rows, database.TechnicalSkill{
				Name:      strings.TrimSpace(in.Name),
				Level:     *in.Level,
				Category:  stringOr(in.Category, "Programming"),
				IsActive:  boolOr(in.IsActive, true),
				SortOrder: in.Order,
			})
		}
		out.Technical = &rows
	}
	if r.Professional != nil {
		rows := make([]database.ProfessionalSkill, 0, len(*r.Professional))
		for _, in := range *r.Professional {
			rows = append(rows, database.ProfessionalSkill{
				Name:        strings.TrimSpace(in.Name),
				Icon:        in.Icon,
				Description: in.Description,
				IsActive:    boolOr(in.IsActive, true),
				SortOrder:   in.Order,
			})
		}
		out.Professional = &rows
	}
	if r.Technologies != nil {
		rows := make([]database.Technology, 0, len(*r.Technologies))
		for _, in := range *r.Technologies {
			icon := in.IconURL
			if icon == "" {
				icon = in.Icon
			}
			rows = append(rows, database.Technology{
				Name:      strings.TrimSpace(in.Name),
				IconURL:   icon,
				Category:  stringOr(in.Category, "Frontend"),
				IsActive:  boolOr(in.IsActive, true),
				SortOrder: in.Order,
			})
		}
		out.Technologies = &rows
	}
	return out
}

type projectInput struct {
	Title        string   `json:"title" binding:"required,notblank,max=200"`
	Description  string   `json:"description"`
	Image        string   `json:"image" binding:"max=512"`
	GithubURL    string   `json:"github_url" binding:"omitempty,url,max=512"`
	LiveURL      string   `json:"live_url" binding:"omitempty,url,max=512"`
	IsFeatured   bool     `json:"is_featured"`
	IsActive     *bool    `json:"is_active"`
	Order        int      `json:"order"`
	Technologies []string `json:"technologies" binding:"omitempty,dive,required,notblank,max=100"`
}

type projectsUpdateRequest struct {
	Projects []projectInput `json:"projects" binding:"dive"`
}

func (r projectsUpdateRequest) inputs() []store.ProjectInput {
	out := make([]store.ProjectInput, 0, len(r.Projects))
	for _, in := range r.Projects {
		names := make([]string, 0, len(in.Technologies))
		for _, n := range in.Technologies {
			names = append(names, strings.TrimSpace(n))
		}
		out = append(out, store.ProjectInput{
			Project: database.Project{
				Title:       strings.TrimSpace(in.Title),
				Description: in.Description,
				Image:       in.Image,
				GithubURL:   in.GithubURL,
				LiveURL:     in.LiveURL,
				IsFeatured:  in.IsFeatured,
				IsActive:    boolOr(in.IsActive, true),
				SortOrder:   in.Order,
			},
			Technologies: names,
		})
	}
	return out
}

type experienceInput struct {
	Title          string  `json:"title" binding:"required,notblank,max=200"`
	Company        string  `json:"company" binding:"required,notblank,max=200"`
	Location       string  `json:"location" binding:"max=100"`
	StartDate      string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	IsCurrent      bool    `json:"is_current"`
	Description    string  `json:"description"`
	ExperienceType string  `json:"experience_type" binding:"omitempty,oneof=work education certification"`
	IsActive       *bool   `json:"is_active"`
	Order          int     `json:"order"`
}

type experienceUpdateRequest struct {
	Experience []experienceInput `json:"experience" binding:"dive"`
}

// rows 转换为模型；结束日期早于开始日期时返回 fieldErrors。
func (r experienceUpdateRequest) rows() ([]database.Experience, error) {
	out := make([]database.Experience, 0, len(r.Experience))
	errs := fieldErrors{}
	for i, in := range r.Experience {
		start, err := time.Parse(dateLayout, in.StartDate)
		if err != nil {
			errs[fmt.Sprintf("experience[%d].start_date", i)] = "enter a valid date in YYYY-MM-DD format"
			continue
		}
		row := database.Experience{
			Title:          strings.TrimSpace(in.Title),
			Company:        strings.TrimSpace(in.Company),
			Location:       in.Location,
			StartDate:      datatypes.Date(start),
			IsCurrent:      in.IsCurrent,
			Description:    in.Description,
			ExperienceType: in.ExperienceType,
			IsActive:       boolOr(in.IsActive, true),
			SortOrder:      in.Order,
		}
		if row.ExperienceType == "" {
			row.ExperienceType = database.ExperienceWork
		}
		if in.EndDate != nil && *in.EndDate != "" {
			end, err := time.Parse(dateLayout, *in.EndDate)
			if err != nil {
				errs[fmt.Sprintf("experience[%d].end_date", i)] = "enter a valid date in YYYY-MM-DD format"
				continue
			}
			if end.Before(start) {
				errs[fmt.Sprintf("experience[%d].end_date", i)] = "end date must not be before start date"
				continue
			}
			d := datatypes.Date(end)
			row.EndDate = &d
		}
		out = append(out, row)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

type socialLinkInput struct {
	Name     string `json:"name" binding:"required,notblank,max=50"`
	URL      string `json:"url" binding:"required,url,max=512"`
	Icon     string `json:"icon" binding:"max=50"`
	IsActive *bool  `json:"is_active"`
	Order    int    `json:"order"`
}

type contactUpdateRequest struct {
	Email    *string            `json:"email" binding:"omitempty,email,max=254"`
	Phone    *string            `json:"phone" binding:"omitempty,max=20"`
	Location *string            `json:"location" binding:"omitempty,max=100"`
	Social   *[]socialLinkInput `json:"social" binding:"omitempty,dive"`
}

func (r contactUpdateRequest) update() store.ContactUpdate {
	out := store.ContactUpdate{Profile: make(map[string]any)}
	if r.Email != nil {
		out.Profile["email"] = strings.TrimSpace(*r.Email)
	}
	if r.Phone != nil {
		out.Profile["phone"] = strings.TrimSpace(*r.Phone)
	}
	if r.Location != nil {
		out.Profile["location"] = strings.TrimSpace(*r.Location)
	}
	if r.Social != nil {
		links := make([]database.SocialLink, 0, len(*r.Social))
		for _, in := range *r.Social {
			links = append(links, database.SocialLink{
				Name:      strings.TrimSpace(in.Name),
				URL:       in.URL,
				Icon:      in.Icon,
				IsActive:  boolOr(in.IsActive, true),
				SortOrder: in.Order,
			})
		}
		out.Social = &links
	}
	return out
}

type contactMessageRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=100"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Subject string `json:"subject" binding:"required,notblank,max=200"`
	Message string `json:"message" binding:"required,notblank"`
}

type messageFlagsRequest struct {
	IsRead    *bool `json:"is_read"`
	IsReplied *bool `json:"is_replied"`
}

func stringOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return strings.TrimSpace(*v)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
