package main

import (
	"net/http"

	"github.com/collabtext-lab/backend/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadApiRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting api server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadApiRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)

	router.GET(s.router, "/getDocument", s.documentDomain.Get)
	router.GET(s.router, "/getListDocument", s.documentDomain.GetList)
	router.GET(s.router, "/getListDocumentByUser", s.documentDomain.GetListByUser)
	router.GET(s.router, "/getDocumentPermissions", s.permissionDomain.GetByDocument)
	router.GET(s.router, "/getUserPermissions", s.permissionDomain.GetByUser)
	router.GET(s.router, "/getUser", s.userDomain.Get)

	router.POST(s.router, "/createDocument", s.documentDomain.Create)
	router.POST(s.router, "/updateDocument", s.documentDomain.Update)
	router.POST(s.router, "/deleteDocument", s.documentDomain.Delete)
	router.POST(s.router, "/grantPermission", s.permissionDomain.Grant)
	router.POST(s.router, "/revokePermission", s.permissionDomain.Revoke)
	router.POST(s.router, "/createUser", s.userDomain.Create)
}
