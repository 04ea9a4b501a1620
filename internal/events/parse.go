package events

import (
	"encoding/json"
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/calderost/bridgewatch/internal/model"
)

var parsers fastjson.ParserPool

// ParseRawEvents decodes a JSON payload carrying one RawEvent object or an
// array of them, in delivery order. Individual records are decoded
// tolerantly: a missing module becomes an empty string, a numeric method is
// coerced to its text, and args is carried through verbatim. Array elements
// that are not objects are skipped rather than failing the batch.
func ParseRawEvents(data []byte) ([]*model.RawEvent, error) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("events: invalid payload: %w", err)
	}

	if v.Type() == fastjson.TypeArray {
		arr, _ := v.Array()
		out := make([]*model.RawEvent, 0, len(arr))
		for _, item := range arr {
			if item.Type() != fastjson.TypeObject {
				continue
			}
			out = append(out, parseRawEvent(item))
		}
		return out, nil
	}
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("events: payload is %s, want object or array", v.Type())
	}
	return []*model.RawEvent{parseRawEvent(v)}, nil
}

func parseRawEvent(v *fastjson.Value) *model.RawEvent {
	e := &model.RawEvent{
		ID:     string(v.GetStringBytes("id")),
		Time:   v.GetInt64("time"),
		Type:   string(v.GetStringBytes("type")),
		Module: string(v.GetStringBytes("module")),
	}

	if mv := v.Get("method"); mv != nil && mv.Type() != fastjson.TypeNull {
		if sb, err := mv.StringBytes(); err == nil {
			e.Method = model.MethodValue(sb)
		} else {
			// Numbers (and anything else) display as their JSON text.
			e.Method = model.MethodValue(mv.String())
		}
	}

	if av := v.Get("args"); av != nil && av.Type() != fastjson.TypeNull {
		e.Args = json.RawMessage(av.MarshalTo(nil))
	}

	return e
}
