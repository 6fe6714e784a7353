package chatbot

import (
	"fmt"
	"strings"

	"github.com/binilvincent/portfolio/internal/knowledge"
)

// Rand is the random source used to vary greetings and fallbacks.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// toolsShown caps how many tools the skills answer lists.
const toolsShown = 6

var greetings = [4]string{
	"Hi! I'm Nik, Binil's AI assistant. 👋 How can I help you today?",
	"Hello! 👋 I'm here to answer any questions about Binil's skills, experience, and projects. What would you like to know?",
	"Hey there! I'm Nik, ready to tell you all about Binil Vincent. What interests you?",
	"Greetings! I'm Nik, Binil's portfolio assistant. Ask me anything about his work!",
}

var fallbacks = [4]string{
	"That's an interesting question! While I'm focused on Binil's portfolio, I can tell you about his skills, projects, experience, or education. What would you like to know?",
	"I'm specialized in discussing Binil Vincent's professional profile. Could you ask about his skills, work experience, projects, or certifications?",
	"I'd love to help! I have detailed information about Binil's technical skills, work history, and achievements. What aspect interests you most?",
	"Great question! Let me help you learn more about Binil. You can ask me about his programming skills, projects he's built, his work at Accenture, or his educational background.",
}

const (
	aboutFollowUp = "He's currently working at Accenture as an Application Development Associate and has strong expertise in full-stack development with technologies like .NET Core, React.js, and Node.js."

	contactReply = "You can reach out to Binil through:\n\n" +
		"📧 Use the contact form on this portfolio\n" +
		"💼 Connect on LinkedIn\n" +
		"💻 Check out his GitHub profile\n" +
		"📍 Based in Kerala, India\n\n" +
		"Scroll to the contact section to send him a message!"

	dotNetReply   = "Yes! Binil is proficient in ASP .NET Core and has completed comprehensive certification in .NET development. He uses it to build scalable web applications and robust backend systems."
	reactReply    = "Binil is skilled in React.js for frontend development. He's built several projects including a Real Estate web application and NoteMarket mobile app using React and React Native."
	databaseReply = "Binil works with MySQL and SQL Server for database management. He has hands-on experience in designing database schemas and optimizing queries for performance."

	helpReply = "I can help you learn about Binil Vincent's:\n" +
		"• Skills & Technologies\n" +
		"• Work Experience\n" +
		"• Projects & Applications\n" +
		"• Education Background\n" +
		"• Certifications\n" +
		"• Achievements (NASA Space Apps!)\n" +
		"• Contact Information\n\n" +
		"Just ask me anything!"

	thanksReply = "You're welcome! Feel free to ask if you have any other questions about Binil's portfolio. 😊"
)

// Greetings returns the greeting variants.
func Greetings() []string { return greetings[:] }

// Fallbacks returns the variants used when nothing matched.
func Fallbacks() []string { return fallbacks[:] }

// Generate renders the reply for topic from kb. Only greeting and fallback
// consult rng. An undeclared topic is a programming error and panics.
func Generate(topic Topic, kb *knowledge.Base, rng Rand) string {
	switch topic {
	case TopicGreeting:
		return greetings[rng.Intn(len(greetings))]
	case TopicAbout:
		return about(kb)
	case TopicSkills:
		return skills(kb.Skills)
	case TopicExperience:
		return experience(kb.Experience)
	case TopicProjects:
		return projects(kb.Projects)
	case TopicEducation:
		return education(kb.Education)
	case TopicCertifications:
		return certifications(kb.Certifications)
	case TopicAchievements:
		return achievements(kb.Achievements)
	case TopicContact:
		return contactReply
	case TopicDotNet:
		return dotNetReply
	case TopicReact:
		return reactReply
	case TopicDatabase:
		return databaseReply
	case TopicHelp:
		return helpReply
	case TopicThanks:
		return thanksReply
	case TopicFallback:
		return fallbacks[rng.Intn(len(fallbacks))]
	}
	panic(fmt.Sprintf("chatbot: no response for %v", topic))
}

func about(kb *knowledge.Base) string {
	p := kb.Person
	return fmt.Sprintf("%s is a %s. %s\n\n%s", p.Name, p.Role, p.Description, aboutFollowUp)
}

func skills(s knowledge.SkillSet) string {
	tools := s.Tools
	if len(tools) > toolsShown {
		tools = tools[:toolsShown]
	}
	lines := []struct {
		label string
		items []string
	}{
		{"💻 Technologies", s.Technologies},
		{"🗄️ Databases", s.Databases},
		{"🛠️ Tools", tools},
		{"👥 Soft Skills", s.SoftSkills},
	}

	var b strings.Builder
	b.WriteString("Binil has a comprehensive skill set:\n\n")
	for _, l := range lines {
		if len(l.items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n\n", l.label, strings.Join(l.items, ", "))
	}
	b.WriteString("He's particularly strong in full-stack development and follows clean code principles!")
	return b.String()
}

// numbered renders n blocks under heading, or empty when there is nothing to list.
func numbered(heading, empty string, n int, block func(i int, b *strings.Builder)) string {
	if n == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	for i := 0; i < n; i++ {
		block(i, &b)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func experience(entries []knowledge.ExperienceEntry) string {
	return numbered("Here's Binil's professional experience:",
		"Binil hasn't listed any professional experience yet.",
		len(entries), func(i int, b *strings.Builder) {
			e := entries[i]
			fmt.Fprintf(b, "%d. %s at %s\n", i+1, e.Role, e.Company)
			fmt.Fprintf(b, "   📅 %s | 📍 %s\n", e.Period, e.Location)
			fmt.Fprintf(b, "   %s\n", e.Description)
		})
}

func projects(entries []knowledge.ProjectEntry) string {
	return numbered("Binil has worked on several impressive projects:",
		"Binil hasn't listed any projects yet.",
		len(entries), func(i int, b *strings.Builder) {
			p := entries[i]
			fmt.Fprintf(b, "%d. %s\n", i+1, p.Name)
			fmt.Fprintf(b, "   %s\n", p.Description)
			fmt.Fprintf(b, "   Tech Stack: %s\n", strings.Join(p.Technologies, ", "))
		})
}

func education(entries []knowledge.EducationEntry) string {
	return numbered("Binil's educational background:",
		"Binil hasn't listed any education details yet.",
		len(entries), func(i int, b *strings.Builder) {
			e := entries[i]
			fmt.Fprintf(b, "%d. %s\n", i+1, e.Degree)
			fmt.Fprintf(b, "   %s\n", e.Institution)
			fmt.Fprintf(b, "   %s | %s\n", e.Period, e.Location)
		})
}

func certifications(entries []knowledge.CertificationEntry) string {
	return numbered("Binil has earned several professional certifications:",
		"Binil hasn't listed any certifications yet.",
		len(entries), func(i int, b *strings.Builder) {
			c := entries[i]
			fmt.Fprintf(b, "%d. %s\n", i+1, c.Name)
			fmt.Fprintf(b, "   Organization: %s\n", c.Organization)
			fmt.Fprintf(b, "   %s\n", c.Description)
		})
}

func achievements(entries []knowledge.AchievementEntry) string {
	if len(entries) == 0 {
		return "Binil hasn't listed any achievements yet."
	}
	var b strings.Builder
	b.WriteString("Binil's notable achievements:\n\n")
	for _, a := range entries {
		fmt.Fprintf(&b, "🏆 %s\n", a.Title)
		fmt.Fprintf(&b, "%s\n", a.Description)
		fmt.Fprintf(&b, "Date: %s\n\n", a.Date)
	}
	return strings.TrimSpace(b.String())
}
