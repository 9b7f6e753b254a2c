package scoring

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"secretguest/internal/models"
)

//go:embed comments.yml
var defaultCommentTemplates []byte

// commentTable maps application statuses to reviewer comment templates. Kept
// as data so the wording can change without touching scoring logic.
type commentTable struct {
	Comments map[models.ApplicationStatus]string `yaml:"comments"`
}

var (
	commentsOnce sync.Once
	comments     commentTable
)

func loadComments() {
	commentsOnce.Do(func() {
		data := defaultCommentTemplates
		if path := os.Getenv("COMMENT_TEMPLATES_PATH"); path != "" {
			if override, err := os.ReadFile(path); err == nil {
				data = override
			}
		}
		if err := yaml.Unmarshal(data, &comments); err != nil {
			panic(fmt.Sprintf("scoring: bad comment templates: %v", err))
		}
	})
}

// CommentForStatus returns the reviewer comment template for a status tier.
func CommentForStatus(status models.ApplicationStatus) string {
	loadComments()
	return comments.Comments[status]
}
