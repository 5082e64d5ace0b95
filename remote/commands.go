// SPDX-License-Identifier: EPL-2.0

package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Command is one request from a WebSocket client. Type selects the
// action; Data carries the action's parameters, when it has any.
type Command struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Result answers a command. Type is the command's type with a "_result"
// suffix.
type Result struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SeekRequest is the payload for the seek command.
type SeekRequest struct {
	Frame uint64 `json:"frame"`
}

// VolumeRequest is the payload for the volume command. A positive
// ramp_ms fades to the target instead of jumping.
type VolumeRequest struct {
	Volume float64 `json:"volume" validate:"gte=0,lte=1"`
	RampMS float64 `json:"ramp_ms" validate:"gte=0,lte=60000"`
}

// validate is the shared validator instance for command payloads.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report wire keys instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// decodeRequest unmarshals a command payload and checks its
// constraints.
func decodeRequest[T any](data json.RawMessage, dst *T) error {
	if len(data) > 0 {
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
	}

	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	e := verrs[0]
	switch e.Tag() {
	case "gte":
		return fmt.Errorf("%s must be at least %s", e.Field(), e.Param())
	case "lte":
		return fmt.Errorf("%s must be at most %s", e.Field(), e.Param())
	default:
		return fmt.Errorf("%s failed validation %q", e.Field(), e.Tag())
	}
}

// handle applies one command, answers the issuing session, and pokes an
// immediate status refresh so every client sees the effect.
func (s *Server) handle(cmd Command, sess *session) {
	var err error

	switch cmd.Type {
	case "play":
		err = s.eng.Play()
	case "pause":
		err = s.eng.Pause()
	case "stop":
		err = s.eng.Stop()
	case "seek":
		var req SeekRequest
		if err = decodeRequest(cmd.Data, &req); err == nil {
			err = s.eng.Seek(req.Frame)
		}
	case "volume":
		var req VolumeRequest
		if err = decodeRequest(cmd.Data, &req); err == nil {
			if req.RampMS > 0 {
				s.eng.SetVolumeRamped(req.Volume, req.RampMS)
			} else {
				s.eng.SetVolume(req.Volume)
			}
		}
	case "mute":
		s.eng.Mute()
	case "unmute":
		s.eng.Unmute()
	default:
		s.log.Warn("unknown command", "type", cmd.Type)
		err = fmt.Errorf("unknown command %q", cmd.Type)
	}

	if err != nil {
		s.log.Debug("command failed", "type", cmd.Type, "error", err)
	}

	sess.trySend(newResult(cmd.Type, err), s.log)
	s.pokeStatus()
}

func newResult(cmdType string, err error) Result {
	r := Result{Type: cmdType + "_result", Success: err == nil}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
