package datamanager

import (
	"time"

	"github.com/dmitrijs2005/portfolio/internal/models"
)

// GetDefaultData returns the statically seeded portfolio. Every call builds
// a fresh value, so callers may modify the result freely.
func GetDefaultData() *models.PortfolioData {
	return defaultData(time.Now())
}

func defaultData(now time.Time) *models.PortfolioData {
	return &models.PortfolioData{
		PersonalInfo: models.PersonalInfo{
			Name:        "Alex Morgan",
			ShortName:   "Alex",
			Title:       "Data Scientist / ML Engineer",
			Subtitle:    "B.Tech (IT) Student",
			Description: "IT student building machine learning and data tooling for real-world problems.",
			About:       "I work across the data stack: collecting and cleaning data, training models and shipping them behind small web services.",
			Location:    "Remote",
			Email:       "alex@example.com",
			Github:      "https://github.com/example",
			Linkedin:    "https://linkedin.com/in/example",
			CGPA:        "9.0/10",
			Graduation:  "Jun 2026 (Expected)",
		},
		TechnicalSkills: []models.SkillCategory{
			{Category: "Programming Languages", Skills: []string{"C", "Python", "Java", "JavaScript", "Shell scripting"}},
			{Category: "Machine Learning & AI", Skills: []string{"scikit-learn", "Pandas", "NumPy", "Matplotlib", "LSTM", "Neural Networks"}},
			{Category: "Web Frontend", Skills: []string{"HTML5", "CSS3", "Bootstrap", "React.js"}},
			{Category: "Tools & Databases", Skills: []string{"Linux/Unix", "Git", "MySQL", "Power BI", "Streamlit", "Flask"}},
			{Category: "Soft Skills", Skills: []string{"Problem solving", "Team collaboration", "Leadership"}},
		},
		Projects: []models.Project{
			{
				ID:           1,
				Title:        "Process-Hunter",
				Subtitle:     "System Process Analysis Tool",
				Description:  "C program that reads process details from /proc by PID: command line, state, parent, memory and threads.",
				Technologies: []string{"C", "Linux", "System Programming"},
				Year:         "2025",
				Featured:     true,
			},
			{
				ID:           2,
				Title:        "DataVista",
				Subtitle:     "Automated EDA Tool",
				Description:  "No-code exploratory data analysis app with descriptive statistics, outlier detection and correlation heatmaps.",
				Technologies: []string{"Python", "Streamlit", "Pandas"},
				Year:         "2025",
				Featured:     true,
			},
			{
				ID:           3,
				Title:        "Stock Price Prediction",
				Subtitle:     "LSTM Time Series Forecasting",
				Description:  "LSTM forecasting model for historical stock prices with a small Flask demo.",
				Technologies: []string{"Python", "LSTM", "TensorFlow", "Flask"},
				Year:         "2024",
				Featured:     true,
			},
			{
				ID:           4,
				Title:        "Email Spam Classification",
				Subtitle:     "NLP Classification Model",
				Description:  "Naive Bayes and logistic regression spam classifier over TF-IDF features.",
				Technologies: []string{"Python", "NLP", "scikit-learn"},
				Year:         "2024",
			},
		},
		Experience: []models.Experience{
			{
				ID:          1,
				Title:       "Intern, Generative AI",
				Company:     "Cloud Lab",
				Location:    "Remote",
				Period:      "May 2025 - Jul 2025",
				Type:        "Internship",
				Description: []string{"Built proof-of-concept generative AI deployments", "Studied inference pipelines and deployment options"},
			},
			{
				ID:          2,
				Title:       "Student Mentor",
				Company:     "Scholars Foundation",
				Location:    "Remote",
				Period:      "Jul 2024 - Present",
				Type:        "Part-time",
				Description: []string{"Mentored students in skill-building projects", "Organized learning sessions and workshops"},
			},
		},
		Education: []models.Education{
			{
				ID:          1,
				Institution: "Engineering College",
				Degree:      "B.Tech in Information Technology",
				Period:      "Oct 2022 - Jun 2026 (Expected)",
				Grade:       "CGPA: 9.0/10",
				Coursework:  []string{"Operating Systems", "Computer Networks", "DBMS", "Machine Learning"},
			},
			{
				ID:          2,
				Institution: "Junior College",
				Degree:      "Intermediate (MPC)",
				Period:      "2020 - 2022",
				Grade:       "Score: 93%",
			},
		},
		Certifications: []models.Certification{
			{Title: "Java Programming", Issuer: "GeeksforGeeks", Year: "2025", Skills: []string{"OOP", "Collections", "Multithreading"}},
			{Title: "Data Science for Everyone", Issuer: "Skill Academy", Year: "2025", Skills: []string{"Data Cleaning", "Visualization"}},
			{Title: "Analyzing Data with Python", Issuer: "edX", Year: "2024", Skills: []string{"Pandas", "NumPy"}},
		},
		Achievements: []models.Achievement{
			{Title: "Undergraduate Scholar", Description: "Awarded for academic excellence and leadership potential"},
			{Title: "Club President", Description: "Led an AI-assisted coding event"},
			{Title: "Academic Excellence", Description: "Consistent high performance with 9.0 CGPA"},
		},
		QuickFacts: map[string]string{
			"location":    "Remote",
			"cgpa":        "CGPA: 9.0/10",
			"graduation":  "Expected Graduation: Jun 2026",
			"scholarship": "Undergraduate Scholar",
		},
		CurrentFocus: []models.FocusItem{
			{Title: "Machine Learning & AI", Description: "Building predictive models and exploring generative AI", Icon: "robot"},
			{Title: "Data Science Projects", Description: "Tools for automated data analysis and visualization", Icon: "chart"},
			{Title: "Open Source Contribution", Description: "Contributing to the developer community", Icon: "rocket"},
		},
		Resumes:     []models.Resume{},
		LastUpdated: now.UTC(),
	}
}
