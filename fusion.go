package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alex-Williams01/Final-Year-Project/pkg"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/config"

	"github.com/spf13/cobra"
)

func TrainCommand() *cobra.Command {

	var trainFile string
	var outputFile string
	var configFile string
	var trainingParameters pkg.TrainingParameters

	var cmd = &cobra.Command{
		Use:   "train -i trainData -o outputFile",
		Short: "Trains a new fusion network on the provided training data and saves the trained model",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			return pkg.Train(trainFile, outputFile, cfg, trainingParameters)
		},
	}

	cmd.Flags().StringVarP(&trainFile, "train-file", "i", "", "name of train file")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "name of the file to save model to.")
	cmd.Flags().StringVarP(&configFile, "config-file", "c", "", "name of the network configuration file (optional, uses defaults if not present)")
	addTrainingFlags(cmd, &trainingParameters)

	_ = cmd.MarkFlagRequired("train-file")
	_ = cmd.MarkFlagRequired("output-file")

	return cmd
}

func TestCommand() *cobra.Command {
	var modelFile string
	var inputFile string
	var outputFile string

	var cmd = &cobra.Command{
		Use:   "test -m modelFile -i inputFile [-o outputFile]",
		Short: "Runs the provided model on the specified data input and optionally writes the predictions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Test(modelFile, inputFile, outputFile)
		},
	}

	cmd.Flags().StringVarP(&modelFile, "model", "m", "", "name of model to test")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of data input file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of output file (optional)")

	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func CrossValCommand() *cobra.Command {
	var dataFile string
	var configFile string
	var numFolds int
	var trainingParameters pkg.TrainingParameters

	var cmd = &cobra.Command{
		Use:   "crossval -i dataFile -k numFolds",
		Short: "Runs k-fold cross-validation on the provided data and reports the averaged metrics",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			_, err = pkg.CrossValidate(dataFile, numFolds, cfg, trainingParameters)
			return err
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data-file", "i", "", "name of data file")
	cmd.Flags().StringVarP(&configFile, "config-file", "c", "", "name of the network configuration file (optional, uses defaults if not present)")
	cmd.Flags().IntVarP(&numFolds, "folds", "k", 5, "number of cross-validation folds")
	addTrainingFlags(cmd, &trainingParameters)

	_ = cmd.MarkFlagRequired("data-file")

	return cmd
}

func addTrainingFlags(cmd *cobra.Command, params *pkg.TrainingParameters) {
	cmd.Flags().IntVarP(&params.BatchSize, "batch-size", "b", 16, "batch size")
	cmd.Flags().Float64VarP(&params.LearningRate, "learning-rate", "l", 0.001, "learning rate")
	cmd.Flags().IntVarP(&params.ReportInterval, "report-interval", "r", 10, "loss report interval")
	cmd.Flags().IntVarP(&params.NumEpochs, "num-epochs", "n", 10, "number of epochs to train")
	cmd.Flags().Uint64VarP(&params.RndSeed, "random-seed", "x", 42, "random seed")
}

var logLevel string
var logFormat string

func main() {

	Main := &cobra.Command{Use: "fusion", PersistentPreRun: setupLogging}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	Main.AddCommand(TrainCommand())
	Main.AddCommand(TestCommand())
	Main.AddCommand(CrossValCommand())

	if err := Main.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		panic("Invalid logging level specified")
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		panic("Invalid log format specified")

	}

}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
