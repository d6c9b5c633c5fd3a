package factory

import (
	"context"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/controllers"
	"github.com/miniclay/miniclay-server/pkg/helpers"
	"github.com/miniclay/miniclay-server/pkg/models"
	"github.com/miniclay/miniclay-server/pkg/services/registry"
	zoomservice "github.com/miniclay/miniclay-server/pkg/services/zoom"
	"github.com/miniclay/miniclay-server/pkg/speech/providers"
)

// ApplicationControllers holds all the controllers.
type ApplicationControllers struct {
	MeetingController   *controllers.MeetingController
	AudioController     *controllers.AudioController
	WebsocketController *controllers.WebsocketController
}

// Application is the root struct holding all dependencies.
type Application struct {
	Controllers     *ApplicationControllers
	AppConfig       *config.AppConfig
	Ctx             context.Context
	janitorModel    *models.JanitorModel
	webhookNotifier *helpers.WebhookNotifier
}

// NewApplication builds the full dependency graph.
func NewApplication(ctx context.Context, appConfig *config.AppConfig) (*Application, error) {
	sessionRegistry := registry.New()
	zoomService := zoomservice.New(appConfig, appConfig.Logger)
	webhookNotifier := helpers.NewWebhookNotifier(appConfig, appConfig.Logger)

	transcriber := providers.NewTranscriber(appConfig, appConfig.Logger)
	generator, err := providers.NewReplyGenerator(ctx, appConfig, appConfig.Logger)
	if err != nil {
		return nil, err
	}
	synthesizer, err := providers.NewSynthesizer(appConfig, appConfig.Logger)
	if err != nil {
		return nil, err
	}

	authTokenModel := models.NewAuthTokenModel(appConfig)
	meetingModel := models.NewMeetingModel(appConfig, sessionRegistry, authTokenModel, zoomService, webhookNotifier, appConfig.Logger)
	pipelineModel := models.NewPipelineModel(appConfig, sessionRegistry, transcriber, generator, synthesizer, appConfig.Logger)
	janitorModel := models.NewJanitorModel(ctx, sessionRegistry, webhookNotifier, appConfig.Logger)

	ctrl := &ApplicationControllers{
		MeetingController:   controllers.NewMeetingController(meetingModel),
		AudioController:     controllers.NewAudioController(appConfig, meetingModel, pipelineModel, appConfig.Logger),
		WebsocketController: controllers.NewWebsocketController(ctx, meetingModel, pipelineModel, appConfig.Logger),
	}

	return &Application{
		Controllers:     ctrl,
		AppConfig:       appConfig,
		Ctx:             ctx,
		janitorModel:    janitorModel,
		webhookNotifier: webhookNotifier,
	}, nil
}

func (a *Application) Boot() {
	go a.janitorModel.StartJanitor()
}

func (a *Application) Shutdown() {
	a.janitorModel.Shutdown()
	a.webhookNotifier.Stop()
}
