package main

import (
	"log"

	"helpdesk-ai-be/internal/config"
	"helpdesk-ai-be/internal/model"
	"helpdesk-ai-be/pkg/database"
	"helpdesk-ai-be/pkg/embedding"
	"helpdesk-ai-be/pkg/embedding/jina"

	"github.com/fatih/color"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Username string
	Password string
	Role     string
}

type seedDocument struct {
	Title   string
	Source  string
	Content string
}

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo users...")

	users := []seedUser{
		{Username: "trainee1", Password: "trainee123", Role: "trainee"},
		{Username: "instructor1", Password: "instructor123", Role: "instructor"},
		{Username: "operator1", Password: "operator123", Role: "operator"},
		{Username: "support1", Password: "support123", Role: "support engineer"},
		{Username: "admin1", Password: "admin123", Role: "admin"},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("username = ?", u.Username).First(&existing).Error; err == nil {
			color.Yellow("User '%s' already exists, skipping...", u.Username)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error hashing password for '%s': %v", u.Username, err)
		}

		user := model.User{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			color.Red("Error creating user '%s': %v", u.Username, err)
		} else {
			color.Green("Created user: %s (%s)", u.Username, u.Role)
		}
	}

	color.Cyan("Seeding knowledge base...")

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embedder = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embedder = jina.NewJinaProvider(cfg.Keys.JinaAI)
	} else {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	documents := []seedDocument{
		{
			Title:  "Resetting lab credentials",
			Source: "runbook/auth.md",
			Content: "If a trainee cannot log in to the lab portal, first verify the MFA " +
				"device pairing. Expired credentials can be reset from the instructor " +
				"console under Users > Reset Credentials. A login redirect loop usually " +
				"means the session cookie domain does not match the portal hostname.",
		},
		{
			Title:  "Recovering a frozen lab VM",
			Source: "runbook/vm.md",
			Content: "A frozen lab VM should first be soft-rebooted from the dashboard. " +
				"If the VM shows a kernel panic on the console, detach the practice " +
				"volume before rebooting so the crash does not corrupt exercise data. " +
				"Repeated freezes on the same image indicate an oversubscribed host.",
		},
		{
			Title:  "Lab DNS resolution failures",
			Source: "runbook/dns.md",
			Content: "Exercise containers resolve names through the lab resolver at " +
				"10.0.0.53. If a domain fails to resolve only inside the lab, check " +
				"that the sandbox zone file includes the exercise domain. Public " +
				"domains are intentionally blocked from sandboxed environments.",
		},
		{
			Title:  "Container startup troubleshooting",
			Source: "runbook/container.md",
			Content: "When an exercise container exits immediately, inspect the " +
				"startup.sh log under /var/log/lab. Missing capability grants are the " +
				"most common cause. Containers must not be granted host access to " +
				"work around startup failures.",
		},
	}

	for _, d := range documents {
		var existing model.KBDocument
		if err := db.Where("source = ?", d.Source).First(&existing).Error; err == nil {
			color.Yellow("Document '%s' already exists, skipping...", d.Source)
			continue
		}

		doc := model.KBDocument{
			Title:   d.Title,
			Source:  d.Source,
			Content: d.Content,
		}

		embRes, err := embedder.Generate(d.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			color.Yellow("Embedding failed for '%s' (%v), inserting without vector", d.Source, err)
		} else {
			vec := pgvector.NewVector(embRes.Embedding.Values)
			doc.Embedding = &vec
		}

		if err := db.Create(&doc).Error; err != nil {
			color.Red("Error creating document '%s': %v", d.Source, err)
		} else {
			color.Green("Created document: %s", d.Source)
		}
	}

	color.Cyan("Seeding completed!")
}
