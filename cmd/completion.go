package cmd

import (
	"github.com/etnz/txingest"
	"github.com/etnz/txingest/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	files := predict.Files("*")
	var types predict.Set
	for _, t := range txingest.TransactionTypes() {
		types = append(types, string(t))
	}
	var columns predict.Set
	for _, c := range txingest.AllColumns {
		columns = append(columns, string(c))
	}
	var fields predict.Set
	for _, f := range txingest.Fields {
		fields = append(fields, string(f))
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"rules-file": predict.Files("*.json"),
			"db":         predict.Files("*.db"),
			"v":          predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"detect": {
				Flags: map[string]complete.Predictor{"save": predict.Files("*.json")},
				Args:  files,
			},
			"import": {
				Flags: map[string]complete.Predictor{
					"mapping":      predict.Files("*.json"),
					"map":          fields,
					"account":      predict.Something,
					"set":          predict.Something,
					"columns":      columns,
					"export":       predict.Files("*.csv"),
					"commit":       predict.Nothing,
					"invalid-only": predict.Nothing,
				},
				Args: files,
			},
			"rules":         {},
			"add-rule":      {Args: types},
			"delete-rule":   {},
			"add-broker":    {},
			"delete-broker": {},
			"accounts":      {},
			"add-account":   {Flags: map[string]complete.Predictor{"broker": predict.Something}},
			"topic":         {Args: predict.Set(append(docs.All(), "*"))},
		},
	}
}
