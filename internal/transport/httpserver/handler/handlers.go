package handler

import (
	connectiondomain "doctrack-go/internal/domain/connection"
	graphdomain "doctrack-go/internal/domain/graph"
	householddomain "doctrack-go/internal/domain/household"
	sharedomain "doctrack-go/internal/domain/share"
	"doctrack-go/pkg/logger"
)

type Handlers struct {
	Connections *connectiondomain.Service
	Households  *householddomain.Service
	Shares      *sharedomain.Service
	Graph       *graphdomain.Service
	log         logger.Logger
}

func New(connections *connectiondomain.Service, households *householddomain.Service, shares *sharedomain.Service, graph *graphdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Connections: connections,
		Households:  households,
		Shares:      shares,
		Graph:       graph,
		log:         log,
	}
}
