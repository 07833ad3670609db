package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"lokai/models"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	sampleRateHertz = 16000
	chunkSize       = 32 * 1024
)

// GoogleRecognizer streams LINEAR16 audio to Google Cloud Speech-to-Text.
type GoogleRecognizer struct {
	client *speech.Client
	logger *zap.Logger
}

// NewGoogleRecognizer dials the speech API with a service account file.
func NewGoogleRecognizer(ctx context.Context, credentialsFile string, logger *zap.Logger) (*GoogleRecognizer, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &GoogleRecognizer{client: client, logger: logger.With(zap.String("component", "google-speech"))}, nil
}

func (g *GoogleRecognizer) Supported() bool { return true }

func (g *GoogleRecognizer) Close() error {
	return g.client.Close()
}

// Recognize opens a streaming session and feeds audio (raw 16 kHz mono
// LINEAR16 samples) in the background.
func (g *GoogleRecognizer) Recognize(ctx context.Context, lang models.LanguageCode, audio io.Reader) (ResultStream, error) {
	stream, err := g.client.StreamingRecognize(ctx)
	if err != nil {
		return nil, mapEngineError(err)
	}

	err = stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:          speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz:   sampleRateHertz,
					AudioChannelCount: 1,
					LanguageCode:      string(lang),
				},
				InterimResults:  true,
				SingleUtterance: true,
			},
		},
	})
	if err != nil {
		return nil, mapEngineError(err)
	}

	go func() {
		buf := make([]byte, chunkSize)
		for {
			n, rerr := audio.Read(buf)
			if n > 0 {
				if err := stream.Send(&speechpb.StreamingRecognizeRequest{
					StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{AudioContent: buf[:n]},
				}); err != nil {
					g.logger.Debug("audio send stopped", zap.Error(err))
					return
				}
			}
			if rerr != nil {
				if rerr != io.EOF {
					g.logger.Warn("audio read failed", zap.Error(rerr))
				}
				if err := stream.CloseSend(); err != nil {
					g.logger.Debug("close send failed", zap.Error(err))
				}
				return
			}
		}
	}()

	return &googleStream{stream: stream}, nil
}

type googleStream struct {
	stream speechpb.Speech_StreamingRecognizeClient
}

// Recv joins the top alternative of every result in a response, so a
// stable prefix and an unstable tail read as one transcript.
func (s *googleStream) Recv() (Result, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Result{}, io.EOF
			}
			return Result{}, mapEngineError(err)
		}
		if st := resp.GetError(); st != nil && st.GetCode() != int32(codes.OK) {
			return Result{}, mapEngineError(status.ErrorProto(st))
		}
		if len(resp.GetResults()) == 0 {
			continue
		}
		var sb strings.Builder
		final := false
		for _, r := range resp.GetResults() {
			if alts := r.GetAlternatives(); len(alts) > 0 {
				sb.WriteString(alts[0].GetTranscript())
			}
			if r.GetIsFinal() {
				final = true
			}
		}
		return Result{Transcript: strings.TrimSpace(sb.String()), Final: final}, nil
	}
}

func mapEngineError(err error) error {
	if status.Code(err) == codes.PermissionDenied {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("speech recognition failed: %w", err)
}
