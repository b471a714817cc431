package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pescuma/cvschanges/lib/consoles"
	"github.com/pescuma/cvschanges/lib/metrics"
	"github.com/pescuma/cvschanges/lib/model"
	"github.com/pescuma/cvschanges/lib/storages"
)

type Options struct {
	Port uint
}

func Run(console consoles.Console, storage storages.Storage, m *metrics.Metrics, opts *Options) error {
	s := newServer(m, opts)

	console.Printf("Loading existing data...\n")

	err := s.load(storage)
	if err != nil {
		return err
	}

	console.Printf("Starting server on port %v...\n", s.opts.Port)

	return s.router().Run(fmt.Sprintf(":%v", s.opts.Port))
}

type server struct {
	opts    *Options
	metrics *metrics.Metrics

	storage    storages.Storage
	changeSets *model.ChangeSets
}

func newServer(m *metrics.Metrics, opts *Options) *server {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Port == 0 {
		opts.Port = 2427
	}
	if m == nil {
		m = metrics.New()
	}

	return &server{
		opts:    opts,
		metrics: m,
	}
}

func (s *server) load(storage storages.Storage) error {
	var err error

	s.storage = storage

	s.changeSets, err = storage.LoadChangeSets()
	if err != nil {
		return err
	}

	return nil
}

func (s *server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s.initChangeSets(r)
	s.initNames(r)

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}
