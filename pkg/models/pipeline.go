package models

import (
	"context"
	"strings"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/services/registry"
	"github.com/miniclay/miniclay-server/pkg/speech"
	"github.com/sirupsen/logrus"
)

// PipelineModel transforms one raw audio buffer into one synthesized audio
// buffer plus the intermediate transcript and generated text, consulting
// the session registry for context and recording results back into it.
type PipelineModel struct {
	app         *config.AppConfig
	registry    *registry.SessionRegistry
	transcriber speech.Transcriber
	generator   speech.ReplyGenerator
	synthesizer speech.Synthesizer
	logger      *logrus.Entry
}

func NewPipelineModel(app *config.AppConfig, reg *registry.SessionRegistry, transcriber speech.Transcriber, generator speech.ReplyGenerator, synthesizer speech.Synthesizer, logger *logrus.Logger) *PipelineModel {
	return &PipelineModel{
		app:         app,
		registry:    reg,
		transcriber: transcriber,
		generator:   generator,
		synthesizer: synthesizer,
		logger:      logger.WithField("model", "pipeline"),
	}
}

// UtteranceResult is the bundle returned for one processed utterance.
// Audio is nil when synthesis failed; transcript and reply are still
// delivered.
type UtteranceResult struct {
	Transcript string
	Reply      string
	Audio      []byte
	Speakers   []*speech.SpeakerLabel
}

// ProcessUtterance runs the transcribe -> generate -> synthesize sequence
// for one audio clip. Transcription failure aborts the turn; reply
// generation and synthesis failures degrade to the fallback reply and a
// voiceless response instead.
func (m *PipelineModel) ProcessUtterance(ctx context.Context, sessionId string, audio []byte) (*UtteranceResult, error) {
	log := m.logger.WithField("sessionId", sessionId)

	transcription, err := m.transcriber.Transcribe(ctx, audio)
	if err != nil {
		log.WithError(err).Errorln("transcription failed")
		return nil, err
	}
	log.Debugf("transcript: %s", transcription.Text)

	contextBlock := strings.Join(
		m.registry.RecentHistory(sessionId, config.ConversationContextNumEntries), " ")

	reply, err := m.generator.GenerateReply(ctx, transcription.Text, contextBlock)
	if err != nil {
		// never abort a turn solely because reply generation failed
		log.WithError(err).Errorln("reply generation failed, using fallback")
		reply = config.FallbackReply
	}

	audioReply, err := m.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		// deliver transcript and reply without voice
		log.WithError(err).Errorln("speech synthesis failed, responding without audio")
		audioReply = nil
	}

	m.registry.Touch(sessionId, transcription.Text)

	return &UtteranceResult{
		Transcript: transcription.Text,
		Reply:      reply,
		Audio:      audioReply,
		Speakers:   transcription.Speakers,
	}, nil
}
