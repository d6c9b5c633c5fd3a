package controllers

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/models"
	"github.com/sirupsen/logrus"
)

// AudioController handles the one-shot request/response ingress: one
// complete audio clip in, one full utterance bundle out.
type AudioController struct {
	app           *config.AppConfig
	meetingModel  *models.MeetingModel
	pipelineModel *models.PipelineModel
	logger        *logrus.Entry
}

func NewAudioController(app *config.AppConfig, meetingModel *models.MeetingModel, pipelineModel *models.PipelineModel, logger *logrus.Logger) *AudioController {
	return &AudioController{
		app:           app,
		meetingModel:  meetingModel,
		pipelineModel: pipelineModel,
		logger:        logger.WithField("controller", "audio"),
	}
}

// HandleProcessAudio accepts a multipart audio upload, runs the pipeline
// and returns transcript, reply, synthesized audio and speaker labels. The
// uploaded temp file is removed on every exit path.
func (ac *AudioController) HandleProcessAudio(c *fiber.Ctx) error {
	sessionId := c.Params("sessionId")
	if !ac.meetingModel.SessionExists(sessionId) {
		return sendError(c, fiber.StatusNotFound, config.RequestedSessionNotExist)
	}

	fh, err := c.FormFile("audio")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, config.NoAudioFileProvided)
	}

	tmpPath := filepath.Join(ac.app.UploadFileSettings.Path, uuid.NewString())
	// registered before the save so a partial write never leaves an orphan
	defer func() {
		_ = os.Remove(tmpPath)
	}()
	if err := c.SaveFile(fh, tmpPath); err != nil {
		ac.logger.WithError(err).Errorln("failed to save uploaded audio")
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := ac.validateAudioFile(tmpPath); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	audio, err := os.ReadFile(tmpPath)
	if err != nil {
		ac.logger.WithError(err).Errorln("failed to read uploaded audio")
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	ac.logger.Infof("processing audio for session %s", sessionId)
	result, err := ac.pipelineModel.ProcessUtterance(c.UserContext(), sessionId, audio)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, config.TranscriptionFailed)
	}

	// the transport encodes the audio reply; null when synthesis degraded
	var audioReply *string
	if result.Audio != nil {
		enc := base64.StdEncoding.EncodeToString(result.Audio)
		audioReply = &enc
	}

	return c.JSON(fiber.Map{
		"transcript": result.Transcript,
		"response":   result.Reply,
		"audio":      audioReply,
		"speakers":   result.Speakers,
	})
}

type invalidAudioError struct{}

func (invalidAudioError) Error() string { return config.InvalidAudioFileType }

// validateAudioFile sniffs the uploaded content. With allowed_types
// configured the extension list wins; otherwise anything audio-like
// (including webm/ogg containers) passes.
func (ac *AudioController) validateAudioFile(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}

	allowed := ac.app.UploadFileSettings.AllowedTypes
	if len(allowed) > 0 {
		ext := strings.TrimPrefix(mtype.Extension(), ".")
		for _, t := range allowed {
			if ext == t {
				return nil
			}
		}
		return invalidAudioError{}
	}

	mt := mtype.String()
	if strings.HasPrefix(mt, "audio/") || strings.HasPrefix(mt, "video/webm") || strings.HasPrefix(mt, "application/ogg") {
		return nil
	}
	return invalidAudioError{}
}
