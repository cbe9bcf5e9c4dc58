package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"groupchat/internal/apperrors"
	"groupchat/internal/models"
	"groupchat/internal/services"
)

// Dispatcher routes inbound channel events for one peer at a time. Every
// outcome is answered on the originating peer only.
type Dispatcher struct {
	delivery *services.DeliveryService
	rooms    *Rooms
	validate *validator.Validate
	log      *slog.Logger
}

func NewDispatcher(delivery *services.DeliveryService, rooms *Rooms, log *slog.Logger) *Dispatcher {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Dispatcher{
		delivery: delivery,
		rooms:    rooms,
		validate: v,
		log:      log.With(slog.String("component", "dispatcher")),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, p Peer, raw []byte) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
		d.reply(p, models.SendMessageError{Message: "malformed event"})
		return
	}

	switch env.Event {
	case models.EventSendMessage:
		d.sendMessage(ctx, p, env.Data)
	case models.EventJoinGroup:
		d.joinGroup(ctx, p, env.Data)
	case models.EventSendGroupMessage:
		d.sendGroupMessage(ctx, p, env.Data)
	default:
		d.reply(p, models.SendMessageError{Message: fmt.Sprintf("unknown event %q", env.Event)})
	}
}

func (d *Dispatcher) sendMessage(ctx context.Context, p Peer, data json.RawMessage) {
	var in models.SendMessageEvent
	if err := d.decode(data, &in); err != nil {
		d.reply(p, models.SendMessageError{Message: err.Error()})
		return
	}
	msg, err := d.delivery.SendPrivate(ctx, p.Identity(), in.ReceiverID, in.Content)
	if err != nil {
		d.reply(p, models.SendMessageError{Message: apperrors.PublicMessage(err)})
		return
	}
	d.reply(p, models.MessageSentConfirmation(*msg))
}

func (d *Dispatcher) joinGroup(ctx context.Context, p Peer, data json.RawMessage) {
	var in models.JoinGroupEvent
	if err := d.decode(data, &in); err != nil {
		d.reply(p, models.GroupJoinError{GroupID: in.GroupID, Message: err.Error()})
		return
	}
	if err := d.rooms.Join(ctx, p, in.GroupID); err != nil {
		if errors.Is(err, apperrors.ErrInternal) {
			d.log.Error("join group", slog.String("groupID", in.GroupID), slog.String("connID", p.ID()), slog.Any("error", err))
		}
		d.reply(p, models.GroupJoinError{GroupID: in.GroupID, Message: apperrors.PublicMessage(err)})
		return
	}
	d.reply(p, models.GroupJoined{GroupID: in.GroupID})
}

func (d *Dispatcher) sendGroupMessage(ctx context.Context, p Peer, data json.RawMessage) {
	var in models.SendGroupMessageEvent
	if err := d.decode(data, &in); err != nil {
		d.reply(p, models.SendMessageError{Message: err.Error(), GroupID: in.GroupID, CorrelationToken: in.CorrelationToken})
		return
	}
	msg, err := d.delivery.SendGroup(ctx, p.Identity(), in.GroupID, in.Content)
	if err != nil {
		d.reply(p, models.SendMessageError{
			Message:          apperrors.PublicMessage(err),
			GroupID:          in.GroupID,
			CorrelationToken: in.CorrelationToken,
		})
		return
	}
	d.reply(p, models.GroupMessageSentConfirmation{CorrelationToken: in.CorrelationToken, Message: *msg})
}

// decode unmarshals an event payload and runs its validate tags.
func (d *Dispatcher) decode(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("%w: missing event data", apperrors.ErrInvalidInput)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: malformed event data", apperrors.ErrInvalidInput)
	}
	if err := d.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, describe(verrs[0]))
		}
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " is too long"
	default:
		return fe.Field() + " is invalid"
	}
}

func (d *Dispatcher) reply(p Peer, ev models.Event) {
	if err := p.Push(ev); err != nil {
		d.log.Debug("reply dropped", slog.String("connID", p.ID()), slog.String("event", ev.EventName()), slog.Any("error", err))
	}
}
