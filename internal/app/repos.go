package app

import (
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
)

type Repos struct {
	User     repos.UserRepo
	Source   repos.SourceRepo
	Node     repos.NodeRepo
	Edge     repos.EdgeRepo
	Aid      repos.AidRepo
	Progress repos.ProgressEntryRepo
	WeaveJob repos.WeaveJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Source:   repos.NewSourceRepo(db, log),
		Node:     repos.NewNodeRepo(db, log),
		Edge:     repos.NewEdgeRepo(db, log),
		Aid:      repos.NewAidRepo(db, log),
		Progress: repos.NewProgressEntryRepo(db, log),
		WeaveJob: repos.NewWeaveJobRepo(db, log),
	}
}
