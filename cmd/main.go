package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/app"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/config"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/controllers"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/middleware"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/routes"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/seeding"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize aaraazi-core:", err)
	}
	defer application.Close()

	propRepo := repositories.NewPropertyRepository(application.Store)
	cycleRepo := repositories.NewSellCycleRepository(application.Store)
	pcRepo := repositories.NewPurchaseCycleRepository(application.Store)
	reqRepo := repositories.NewRequirementRepository(application.Store)
	matchRepo := repositories.NewMatchRepository(application.Store)
	dealRepo := repositories.NewDealRepository(application.Store)
	notifyRepo := notify.NewRepository(application.Store)

	channels := []notify.Channel{notify.LogChannel{}}
	if cfg.LDFlag_NotifyEmailEnabled && cfg.SendgridAPIKey != "" {
		channels = append(channels, notify.EmailChannel{
			Client:    sendgrid.NewSendClient(cfg.SendgridAPIKey),
			FromEmail: cfg.LDFlag_SendgridFromEmail,
			OrgName:   cfg.OrganizationName,
			Sandbox:   cfg.LDFlag_SendgridSandboxMode,
		})
	}
	if cfg.LDFlag_NotifySMSEnabled && cfg.TwilioAccountSID != "" {
		twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		channels = append(channels, notify.SMSChannel{
			Client:    twClient,
			FromPhone: cfg.LDFlag_TwilioFromPhone,
		})
	}
	notifier := notify.NewService(notifyRepo, cfg.AgentContacts, channels...)

	listingService := services.NewListingService(propRepo, cycleRepo)
	requirementService := services.NewRequirementService(reqRepo)
	matchingService := services.NewMatchingService(
		cycleRepo, propRepo, reqRepo, matchRepo, notifier, cfg.LDFlag_MatchThreshold,
	)
	offerService := services.NewOfferService(
		cycleRepo, pcRepo, reqRepo, propRepo, matchRepo, dealRepo, notifier,
	)
	dealService := services.NewDealService(
		dealRepo, cycleRepo, pcRepo, propRepo, notifier,
	)
	graphService := services.NewGraphService(
		propRepo, cycleRepo, pcRepo, reqRepo, dealRepo,
	)

	if cfg.LDFlag_SeedDemoData {
		if err := seeding.SeedDemoData(propRepo, reqRepo, listingService); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed demo data")
		}
	}

	healthController := controllers.NewHealthController(application)
	propertyController := controllers.NewPropertyController(listingService)
	cycleController := controllers.NewSellCycleController(listingService)
	requirementController := controllers.NewRequirementController(requirementService, matchingService)
	matchController := controllers.NewMatchController(matchingService)
	offerController := controllers.NewOfferController(offerService)
	dealController := controllers.NewDealController(dealService)
	transactionController := controllers.NewTransactionController(graphService)
	notificationController := controllers.NewNotificationController(notifier)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AgentAuthMiddleware(cfg.JWTPublicKey))

	secured.HandleFunc(routes.PropertiesBase, propertyController.RegisterPropertyHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PropertiesBase, propertyController.ListPropertiesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PropertyByID, propertyController.GetPropertyHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.CyclesBase, cycleController.OpenSellCycleHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CyclesBase, cycleController.ListCyclesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CycleByID, cycleController.GetCycleHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CycleSharing, cycleController.ShareCycleHandler).Methods(http.MethodPatch, http.MethodPut)
	secured.HandleFunc(routes.CycleCancel, cycleController.CancelCycleHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.CycleOffers, offerController.SubmitOfferHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OfferCounter, offerController.CounterOfferHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OfferReject, offerController.RejectOfferHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OfferWithdraw, offerController.WithdrawOfferHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OfferAccept, offerController.AcceptOfferHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.RequirementsBase, requirementController.RegisterRequirementHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.RequirementsBase, requirementController.ListRequirementsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.RequirementByID, requirementController.GetRequirementHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.RequirementClose, requirementController.CloseRequirementHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.RequirementMatches, requirementController.FindMatchesHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.PurchaseCyclesBase, offerController.OpenPurchaseCycleHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.MatchesBase, matchController.ListMatchesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.MatchesRun, matchController.RunMatchingHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.DealsBase, dealController.ListDealsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.DealByID, dealController.GetDealHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.DealStageComplete, dealController.CompleteStageHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.DealCancel, dealController.CancelDealHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.TransactionGraph, transactionController.GetGraphHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TransactionTimeline, transactionController.GetTimelineHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.NotificationsBase, notificationController.ListMyNotificationsHandler).Methods(http.MethodGet)

	c := cron.New()
	_, nightlyErr := c.AddFunc(constants.NightlyMatchingCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.NightlyMatchingRunTimeout)
		defer cancel()
		if _, e := matchingService.RunSharedMatching(ctx); e != nil {
			utils.Logger.WithError(e).Error("Nightly matching run failed")
		}
	})
	if nightlyErr != nil {
		utils.Logger.WithError(nightlyErr).Fatal("Failed to schedule nightly matching cron")
	}

	_, drainErr := c.AddFunc(constants.NotificationDrainCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.NotificationDrainTimeout)
		defer cancel()
		if _, _, e := notifier.Drain(ctx); e != nil {
			utils.Logger.WithError(e).Error("Notification drain failed")
		}
	})
	if drainErr != nil {
		utils.Logger.WithError(drainErr).Fatal("Failed to schedule notification drain cron")
	}
	c.Start()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, constants.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-Id", "X-User-Role"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("aaraazi-core failed to start:", err)
	}
}
