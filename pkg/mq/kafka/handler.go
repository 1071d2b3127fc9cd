package kafka

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-esbulk/pkg/sink"
)

// Handler is a sarama.ConsumerGroupHandler that decodes every message value
// as a JSON record and writes it into a RecordWriter.
//
// A message is marked once its Write returned, which means the record is
// buffered or flushed. Flush failures are reported by the writer's observers,
// not here, so delivery to Elasticsearch is best effort.
type Handler struct {
	writer RecordWriter
	logger *zap.Logger
}

var _ sarama.ConsumerGroupHandler = (*Handler)(nil)

// NewHandler creates a new handler
func NewHandler(writer RecordWriter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{writer: writer, logger: logger}
}

// Setup implements sarama.ConsumerGroupHandler.
func (h *Handler) Setup(sess sarama.ConsumerGroupSession) error {
	h.logger.Info("kafka session started",
		zap.String("member_id", sess.MemberID()),
		zap.Int32("generation", sess.GenerationID()),
	)
	return nil
}

// Cleanup implements sarama.ConsumerGroupHandler.
func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim implements sarama.ConsumerGroupHandler.
func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.handle(msg); err != nil {
				return err
			}
			sess.MarkMessage(msg, "")
		case <-sess.Context().Done():
			return nil
		}
	}
}

func (h *Handler) handle(msg *sarama.ConsumerMessage) error {
	var rec sink.Record
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		// Poison messages are skipped so the partition keeps moving.
		h.logger.Warn("skipping undecodable message",
			zap.String("topic", msg.Topic),
			zap.Int32("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	return h.writer.Write(rec)
}
