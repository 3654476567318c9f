package account

import (
	"time"

	"github.com/bidhaus/goapi/base/ctx"
)

// Account is a bidder or seller identity stored in database
type Account struct {
	Id        string    `json:"id" bson:"id"`
	Alias     string    `json:"alias" bson:"alias"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt,omitempty"`
}

// Repo is account repo
type Repo interface {
	Get(c ctx.Ctx, id string) (*Account, error)
	Insert(c ctx.Ctx, a *Account) error
	Exists(c ctx.Ctx, id string) (bool, error)
}

// Usecase is account usecase
type Usecase interface {
	Create(c ctx.Ctx, alias, email string) (*Account, error)
	Get(c ctx.Ctx, id string) (*Account, error)
	Exists(c ctx.Ctx, id string) (bool, error)
}
