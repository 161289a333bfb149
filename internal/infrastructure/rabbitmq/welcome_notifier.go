package rabbitmq

import (
	"context"

	"github.com/oksasatya/go-user-service/internal/application"
	"github.com/oksasatya/go-user-service/pkg/mailer"
	tpl "github.com/oksasatya/go-user-service/pkg/mailer/templates"
)

// Publisher is satisfied by *helpers.RabbitQueue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// WelcomeNotifier enqueues a welcome email job for every new user.
type WelcomeNotifier struct {
	pub         Publisher
	companyName string
	supportURL  string
}

func NewWelcomeNotifier(pub Publisher, companyName, supportURL string) *WelcomeNotifier {
	return &WelcomeNotifier{pub: pub, companyName: companyName, supportURL: supportURL}
}

func (n *WelcomeNotifier) UserCreated(ctx context.Context, u application.UserResponse) error {
	data := tpl.NewWelcomeData(u.Name, u.Email,
		tpl.WithCompany(n.companyName, n.supportURL),
		tpl.WithTime(u.CreatedAt),
	)
	job := mailer.EmailJob{To: u.Email, Template: tpl.Welcome, Data: tpl.ToMap(data)}
	return n.pub.PublishJSON(ctx, job)
}

var _ application.UserNotifier = (*WelcomeNotifier)(nil)
