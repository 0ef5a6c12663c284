package controllers

import (
	"sync"

	"github.com/roamline/roamline/app/repository"
	"github.com/roamline/roamline/internal/pkg/availability"
	"github.com/roamline/roamline/internal/pkg/catalogsync"
	"github.com/roamline/roamline/internal/pkg/roamify"
)

// Shared service singletons. The repositories behind them come from the
// global factory, so database.SetupDB and repository.InitializeFactory must
// run before the first request.
var (
	servicesOnce sync.Once

	roamifyClient   *roamify.Client
	syncService     *catalogsync.Service
	availabilitySvc *availability.Service
)

func getServices() (*roamify.Client, *catalogsync.Service, *availability.Service) {
	servicesOnce.Do(func() {
		repos := repository.GetGlobalRepositories()
		roamifyClient = roamify.NewClientFromEnv()
		syncService = catalogsync.NewService(roamifyClient, repos.Package, repos.MyPackage, repos.SyncRun)
		availabilitySvc = availability.NewService(roamifyClient)
	})
	return roamifyClient, syncService, availabilitySvc
}
