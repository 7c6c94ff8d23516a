package providers

import (
	"github.com/samber/do/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/config"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/logger"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/service"
)

// ProvideShelfService provides the shelf and favorites service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	metricsHandle := do.MustInvoke[*MetricsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, sseHandle.Manager, metricsHandle.Collector, log.Logger), nil
}

// ProvideFriendService provides the friend request service.
func ProvideFriendService(i do.Injector) (*service.FriendService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	metricsHandle := do.MustInvoke[*MetricsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFriendService(storeHandle.Store, sseHandle.Manager, metricsHandle.Collector, log.Logger), nil
}

// ProvideNotificationService provides the notification fan-out service.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	metricsHandle := do.MustInvoke[*MetricsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotificationService(
		storeHandle.Store,
		sseHandle.Manager,
		metricsHandle.Collector,
		log.Logger,
		cfg.Notifications.ExcerptLength,
	), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	friends := do.MustInvoke[*service.FriendService](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, friends, notifications, log.Logger), nil
}

// ProvideClubService provides the club invitation service.
func ProvideClubService(i do.Injector) (*service.ClubService, error) {
	friends := do.MustInvoke[*service.FriendService](i)
	notifications := do.MustInvoke[*service.NotificationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewClubService(friends, notifications, log.Logger), nil
}

// ProvideUserService provides the user directory service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, indexHandle.SearchIndex, log.Logger), nil
}
