package seed

import (
	"time"

	"gorm.io/datatypes"

	"portfolio/internal/database"
)

// DefaultProfile 返回首次初始化时写入的 Profile。
func DefaultProfile() database.Profile {
	return database.Profile{
		ID:              database.ProfileID,
		Name:            "Your Name",
		Title:           "Full Stack Developer",
		Intro:           "Building digital experiences that matter. Passionate about solving problems through code.",
		AboutJourney:    "I began my coding journey when I discovered my passion for building things with code.",
		AboutInterests:  "When I'm not coding, you'll find me exploring new technologies.",
		Email:           "your.email@example.com",
		Location:        "City, Country",
		ExperienceYears: "3+ Years",
	}
}

func technicalSkills() []database.TechnicalSkill {
	return []database.TechnicalSkill{
		{Name: "JavaScript", Level: 90, Category: "Programming", IsActive: true},
		{Name: "React", Level: 85, Category: "Frontend", IsActive: true},
		{Name: "Python", Level: 80, Category: "Programming", IsActive: true},
		{Name: "Django", Level: 75, Category: "Backend", IsActive: true},
		{Name: "PostgreSQL", Level: 70, Category: "Database", IsActive: true},
	}
}

func professionalSkills() []database.ProfessionalSkill {
	return []database.ProfessionalSkill{
		{Name: "Communication", Icon: "message-square", Description: "Effective verbal and written communication skills", IsActive: true},
		{Name: "Teamwork", Icon: "users", Description: "Collaborative team player with strong interpersonal skills", IsActive: true},
		{Name: "Problem Solving", Icon: "brain", Description: "Analytical thinking and creative problem resolution", IsActive: true},
		{Name: "Time Management", Icon: "clock", Description: "Efficient task prioritization and deadline management", IsActive: true},
	}
}

const deviconBase = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/"

func technologies() []database.Technology {
	return []database.Technology{
		{Name: "React", IconURL: deviconBase + "react/react-original.svg", Category: "Frontend", IsActive: true},
		{Name: "Django", IconURL: deviconBase + "django/django-plain.svg", Category: "Backend", IsActive: true},
		{Name: "Python", IconURL: deviconBase + "python/python-original.svg", Category: "Programming", IsActive: true},
		{Name: "JavaScript", IconURL: deviconBase + "javascript/javascript-original.svg", Category: "Programming", IsActive: true},
		{Name: "PostgreSQL", IconURL: deviconBase + "postgresql/postgresql-original.svg", Category: "Database", IsActive: true},
		{Name: "Git", IconURL: deviconBase + "git/git-original.svg", Category: "Tools", IsActive: true},
	}
}

type seedProject struct {
	project      database.Project
	technologies []string
}

func projects() []seedProject {
	return []seedProject{
		{
			project: database.Project{
				Title:       "E-commerce Platform",
				Description: "A full-featured e-commerce platform with payment integration and admin dashboard.",
				GithubURL:   "https://github.com/yourusername/ecommerce-platform",
				LiveURL:     "https://your-ecommerce-demo.com",
				IsFeatured:  true,
				IsActive:    true,
			},
			technologies: []string{"React", "Django", "PostgreSQL"},
		},
		{
			project: database.Project{
				Title:       "Task Management App",
				Description: "A collaborative task management application with real-time updates.",
				GithubURL:   "https://github.com/yourusername/task-manager",
				LiveURL:     "https://your-task-app.com",
				IsFeatured:  true,
				IsActive:    true,
			},
			technologies: []string{"React", "JavaScript", "Git"},
		},
		{
			project: database.Project{
				Title:       "Portfolio Website",
				Description: "A responsive portfolio website showcasing my work and skills.",
				GithubURL:   "https://github.com/yourusername/portfolio",
				LiveURL:     "https://your-portfolio.com",
				IsFeatured:  true,
				IsActive:    true,
			},
			technologies: []string{"Python", "Django", "JavaScript"},
		},
	}
}

func day(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func experience() []database.Experience {
	frontendEnd := day(2020, time.December, 31)
	degreeEnd := day(2018, time.June, 30)
	return []database.Experience{
		{
			Title:          "Senior Developer",
			Company:        "Tech Company Inc.",
			StartDate:      day(2020, time.January, 1),
			IsCurrent:      true,
			Description:    "Led a team of developers in building scalable web applications. Implemented CI/CD pipelines and mentored junior developers.",
			ExperienceType: database.ExperienceWork,
			IsActive:       true,
		},
		{
			Title:          "Frontend Developer",
			Company:        "Digital Agency",
			StartDate:      day(2018, time.January, 1),
			EndDate:        &frontendEnd,
			Description:    "Developed responsive web applications using React and Vue.js. Collaborated with designers to implement UI/UX best practices.",
			ExperienceType: database.ExperienceWork,
			IsActive:       true,
		},
		{
			Title:          "Computer Science Degree",
			Company:        "University Name",
			StartDate:      day(2014, time.September, 1),
			EndDate:        &degreeEnd,
			Description:    "Specialized in software engineering and web development. Completed coursework in algorithms, databases, and human-computer interaction.",
			ExperienceType: database.ExperienceEducation,
			IsActive:       true,
		},
	}
}

func socialLinks() []database.SocialLink {
	return []database.SocialLink{
		{Name: "GitHub", URL: "https://github.com/yourusername", Icon: "github", IsActive: true, SortOrder: 1},
		{Name: "LinkedIn", URL: "https://linkedin.com/in/yourusername", Icon: "linkedin", IsActive: true, SortOrder: 2},
		{Name: "Twitter", URL: "https://twitter.com/yourusername", Icon: "twitter", IsActive: true, SortOrder: 3},
	}
}
