package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	logicops "github.com/Victor-armando18/pricing-scheme/internal/infrastructure/jsonlogic"
	"github.com/diegoholiveira/jsonlogic/v3"
)

// ErrConditionFailed marks a condition that could not be evaluated.
var ErrConditionFailed = errors.New("condition evaluation failed")

// CustomOperator computes a value from already-resolved arguments.
type CustomOperator func(args ...any) any

// JsonLogicExecutor evaluates scheme conditions written in JsonLogic. The
// order is the data root, so conditions read fields such as
// {"var": "customerGroup"} or {"var": "netTotal"}.
type JsonLogicExecutor struct {
	mu        sync.RWMutex
	customOps map[string]CustomOperator
}

func NewJsonLogicExecutor() *JsonLogicExecutor {
	j := &JsonLogicExecutor{customOps: make(map[string]CustomOperator)}
	j.RegisterCustomOperator("round", logicops.Round)
	j.RegisterCustomOperator("trunc", logicops.Trunc)
	j.RegisterCustomOperator("sum", logicops.Sum)
	j.RegisterCustomOperator("count", logicops.Count)
	return j
}

func (j *JsonLogicExecutor) RegisterCustomOperator(name string, logic CustomOperator) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.customOps[name] = logic
}

// Evaluate reports the truthiness of condition against the order, as the
// JsonLogic "!!" operator defines it.
func (j *JsonLogicExecutor) Evaluate(ctx context.Context, condition map[string]any, order *domain.Order) (bool, error) {
	data, err := orderData(order)
	if err != nil {
		return false, err
	}
	res, err := j.Execute(ctx, map[string]any{"!!": []any{condition}}, data)
	if err != nil {
		return false, err
	}
	ok, isBool := res.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: condition produced %T, not a boolean", ErrConditionFailed, res)
	}
	return ok, nil
}

// Execute runs a JsonLogic rule. Custom operators are resolved first,
// innermost arguments before their callers, and the remaining tree is handed
// to the standard evaluator.
func (j *JsonLogicExecutor) Execute(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reduced, err := j.reduce(ruleData, contextVars)
	if err != nil {
		return nil, err
	}
	if rule, ok := reduced.(map[string]any); ok {
		return apply(rule, contextVars)
	}
	return reduced, nil
}

func (j *JsonLogicExecutor) reduce(node any, data map[string]any) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		if len(v) == 1 {
			for op, args := range v {
				if fn, ok := j.operator(op); ok {
					return j.callCustom(fn, args, data)
				}
			}
		}
		out := make(map[string]any, len(v))
		for k, child := range v {
			r, err := j.reduce(child, data)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			r, err := j.reduce(child, data)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

func (j *JsonLogicExecutor) callCustom(fn CustomOperator, args any, data map[string]any) (any, error) {
	list, ok := args.([]any)
	if !ok {
		list = []any{args}
	}
	params := make([]any, 0, len(list))
	for _, arg := range list {
		r, err := j.reduce(arg, data)
		if err != nil {
			return nil, err
		}
		if sub, isRule := r.(map[string]any); isRule {
			r, err = apply(sub, data)
			if err != nil {
				return nil, err
			}
		}
		params = append(params, r)
	}
	return fn(params...), nil
}

func (j *JsonLogicExecutor) operator(name string) (CustomOperator, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	fn, ok := j.customOps[name]
	return fn, ok
}

func apply(rule map[string]any, data map[string]any) (any, error) {
	ruleJSON, err := json.Marshal(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConditionFailed, err)
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConditionFailed, err)
	}

	var resultBuffer bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &resultBuffer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConditionFailed, err)
	}

	out := bytes.TrimSpace(resultBuffer.Bytes())
	if len(out) == 0 || string(out) == "null" {
		return nil, nil
	}

	var res any
	decoder := json.NewDecoder(bytes.NewReader(out))
	decoder.UseNumber()
	if err := decoder.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConditionFailed, err)
	}
	return finalizeValue(res), nil
}

func finalizeValue(val any) any {
	switch v := val.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case []any:
		for i := range v {
			v[i] = finalizeValue(v[i])
		}
	case map[string]any:
		for k := range v {
			v[k] = finalizeValue(v[k])
		}
	}
	return val
}

func orderData(order *domain.Order) (map[string]any, error) {
	raw, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConditionFailed, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConditionFailed, err)
	}
	return data, nil
}
