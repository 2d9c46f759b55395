package cli

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	csv := predict.Files("*.csv")
	filters := func(extra map[string]complete.Predictor) map[string]complete.Predictor {
		flags := map[string]complete.Predictor{
			"csv":    csv,
			"status": predict.Something,
			"bu":     predict.Something,
			"client": predict.Something,
		}
		for k, v := range extra {
			flags[k] = v
		}
		return flags
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"serve": {Flags: map[string]complete.Predictor{
				"addr": predict.Something,
				"csv":  csv,
			}},
			"summary": {Flags: filters(nil)},
			"report": {Flags: filters(map[string]complete.Predictor{
				"out":   predict.Dirs("*"),
				"html":  predict.Nothing,
				"print": predict.Nothing,
			})},
			"export": {Flags: filters(map[string]complete.Predictor{
				"out": predict.Files("*.xlsx"),
			})},
			"risk": {Flags: map[string]complete.Predictor{
				"csv":     csv,
				"client":  predict.Something,
				"project": predict.Something,
			}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
