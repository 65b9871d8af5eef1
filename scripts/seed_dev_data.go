//go:build ignore

// Seeds a development database with users, posts, comments and likes.
// Goes through the services so every reference list stays consistent.
//
//	go run scripts/seed_dev_data.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"strings"

	_ "github.com/lib/pq"

	"github.com/khaledtf19/Lposts2-Backend/internal/config"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/migrations"
	postgresRepo "github.com/khaledtf19/Lposts2-Backend/internal/db/postgres"
)

const (
	postsPerUser    = 3
	commentsPerPost = 4
	devPassword     = "password123"
)

var userNames = []string{
	"sarah_jenkins", "michael_chen", "jessica_rodriguez", "david_nguyen",
	"emily_williams", "james_patel", "ashley_garcia", "robert_kim",
}

var postTemplates = []string{
	"Just finished a long run, legs are done for the week",
	"Anyone else think tabs are better than spaces?",
	"Coffee number three and it's not even noon",
	"Finally fixed that bug I've been chasing since Monday",
	"Hot take: pineapple belongs on pizza",
}

var commentTemplates = []string{
	"Totally agree with this",
	"Hard disagree, but I respect it",
	"This made my day",
	"Can you share more details?",
	"Same here!",
	"lol",
}

func main() {
	config.LoadDotEnv()
	cfg := config.FromEnv()
	if cfg.DatabaseURL == "" {
		log.Fatal(config.ErrMissingDatabaseURL)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	userRepo := postgresRepo.NewUserRepository(db)
	postRepo := postgresRepo.NewPostRepository(db)
	commentRepo := postgresRepo.NewCommentRepository(db)
	tx := postgresRepo.NewTransactor(db)

	userService := users.NewUserService(userRepo, nil)
	postService := posts.NewPostService(postRepo, userRepo, commentRepo, tx, nil)
	commentService := comments.NewCommentService(commentRepo, postRepo, userService, tx, nil)

	var userIDs []string
	for _, name := range userNames {
		email := strings.ReplaceAll(name, "_", ".") + "@example.com"
		u, err := userService.Register(ctx, users.RegisterRequest{
			Name:     name,
			Email:    email,
			Password: devPassword,
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", name),
		})
		if err != nil {
			if users.IsConflict(err) {
				existing, lookupErr := userRepo.GetByEmail(ctx, email)
				if lookupErr != nil {
					log.Fatalf("Failed to load existing user %s: %v", email, lookupErr)
				}
				userIDs = append(userIDs, existing.ID)
				continue
			}
			log.Fatalf("Failed to register %s: %v", name, err)
		}
		userIDs = append(userIDs, u.ID)
	}
	log.Printf("Users ready: %d (password %q)", len(userIDs), devPassword)

	postCount, commentCount, likeCount := 0, 0, 0
	for _, ownerID := range userIDs {
		for i := 0; i < postsPerUser; i++ {
			p, err := postService.CreatePost(ctx, ownerID, postTemplates[rand.Intn(len(postTemplates))])
			if err != nil {
				log.Fatalf("Failed to create post: %v", err)
			}
			postCount++

			for j := 0; j < commentsPerPost; j++ {
				author := userIDs[rand.Intn(len(userIDs))]
				c, err := commentService.CreateComment(ctx, author, p.ID, commentTemplates[rand.Intn(len(commentTemplates))])
				if err != nil {
					log.Fatalf("Failed to create comment: %v", err)
				}
				commentCount++

				if rand.Intn(2) == 0 {
					if _, err := commentService.LikeComment(ctx, ownerID, c.ID); err != nil {
						log.Fatalf("Failed to like comment: %v", err)
					}
					likeCount++
				}
			}

			for _, liker := range userIDs {
				if liker == ownerID || rand.Intn(3) != 0 {
					continue
				}
				if _, err := postService.LikePost(ctx, liker, p.ID); err != nil {
					log.Fatalf("Failed to like post: %v", err)
				}
				likeCount++
			}
		}
	}

	log.Printf("Seeded %d posts, %d comments, %d likes", postCount, commentCount, likeCount)
}
