package cmd

import (
	"github.com/etnz/dca/renderer"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	inputs := predict.Or(predict.Files("*.json"), predict.Files("*.yaml"), predict.Files("*.yml"))
	formats := predict.Set{"json", "yaml"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"log-level":     predict.Set{"debug", "info", "warn", "error", "off"},
			"log-pretty":    predict.Nothing,
			"provider":      predict.Set(Providers),
			"price-url":     predict.Something,
			"price-path":    predict.Something,
			"eodhd-api-key": predict.Something,
			"concurrency":   predict.Something,
		},
		Sub: map[string]*complete.Command{
			"plan": {
				Flags: map[string]complete.Predictor{
					"format": formats,
					"json":   predict.Nothing,
					"sort":   predict.Set(renderer.Columns),
					"desc":   predict.Nothing,
					"all":    predict.Nothing,
					"raw":    predict.Nothing,
				},
				Args: inputs,
			},
			"validate": {
				Flags: map[string]complete.Predictor{"format": formats},
				Args:  inputs,
			},
			"price":  {Args: predict.Something},
			"search": {Args: predict.Something},
			"serve": {
				Flags: map[string]complete.Predictor{
					"addr": predict.Something,
					"ttl":  predict.Something,
				},
			},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Set{"input", "plan", "algorithm", "providers", "server", "*"},
			},
		},
	}
}
