package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"zkpsi/psi-prover/benchmark"
	"zkpsi/psi-prover/config"
	"zkpsi/psi-prover/encoding"
	"zkpsi/psi-prover/logging"
	"zkpsi/psi-prover/prover"
	"zkpsi/psi-prover/server"

	gnarkLogger "github.com/consensys/gnark/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	runCli()
}

func runCli() {
	gnarkLogger.Set(*logging.Logger())
	app := cli.App{
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name: "setup",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Usage: "Output file", Required: true},
					&cli.StringFlag{Name: "output-vkey", Usage: "Output file for the raw verifying key", Required: true},
					&cli.UintFlag{Name: "set-a-size", Usage: "Size of set A", Required: true},
					&cli.UintFlag{Name: "set-b-size", Usage: "Size of set B", Required: true},
				},
				Action: func(context *cli.Context) error {
					path := context.String("output")
					pathVkey := context.String("output-vkey")
					setASize := uint32(context.Uint("set-a-size"))
					setBSize := uint32(context.Uint("set-b-size"))

					logging.Logger().Info().Msg("Running setup")
					system, err := prover.SetupPsi(setASize, setBSize)
					if err != nil {
						return err
					}
					err = prover.WriteProvingSystem(system, path, pathVkey)
					if err != nil {
						return err
					}

					logging.Logger().Info().Msg("Setup completed successfully")
					return nil
				},
			},
			{
				Name: "r1cs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Usage: "Output file", Required: true},
					&cli.UintFlag{Name: "set-a-size", Usage: "Size of set A", Required: true},
					&cli.UintFlag{Name: "set-b-size", Usage: "Size of set B", Required: true},
				},
				Action: func(context *cli.Context) error {
					path := context.String("output")
					setASize := uint32(context.Uint("set-a-size"))
					setBSize := uint32(context.Uint("set-b-size"))

					logging.Logger().Info().Msg("Building R1CS")
					cs, err := prover.R1CSPsi(setASize, setBSize)
					if err != nil {
						return err
					}
					file, err := os.Create(path)
					if err != nil {
						return err
					}
					defer func(file *os.File) {
						err := file.Close()
						if err != nil {
							logging.Logger().Error().Err(err).Msg("error closing file")
						}
					}(file)
					written, err := cs.WriteTo(file)
					if err != nil {
						return err
					}
					logging.Logger().Info().Int64("bytesWritten", written).Msg("R1CS written to file")
					return nil
				},
			},
			{
				Name: "import-setup",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Usage: "Output file", Required: true},
					&cli.StringFlag{Name: "pk", Usage: "Proving key", Required: true},
					&cli.StringFlag{Name: "vk", Usage: "Verifying key", Required: true},
					&cli.UintFlag{Name: "set-a-size", Usage: "Size of set A", Required: true},
					&cli.UintFlag{Name: "set-b-size", Usage: "Size of set B", Required: true},
				},
				Action: func(context *cli.Context) error {
					path := context.String("output")
					pk := context.String("pk")
					vk := context.String("vk")
					setASize := uint32(context.Uint("set-a-size"))
					setBSize := uint32(context.Uint("set-b-size"))

					logging.Logger().Info().Msg("Importing setup")
					system, err := prover.ImportPsiSetup(setASize, setBSize, pk, vk)
					if err != nil {
						return err
					}
					err = prover.WriteProvingSystem(system, path, "")
					if err != nil {
						return err
					}

					logging.Logger().Info().Msg("Setup imported successfully")
					return nil
				},
			},
			{
				Name: "export-vk",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keys-file", Aliases: []string{"k"}, Usage: "proving system file", Required: true},
					&cli.StringFlag{Name: "output", Usage: "output file", Required: true},
				},
				Action: func(context *cli.Context) error {
					keysFile := context.String("keys-file")
					outputFile := context.String("output")

					system, err := prover.ReadSystemFromFile(keysFile)
					if err != nil {
						return fmt.Errorf("failed to read proving system: %v", err)
					}

					var buf bytes.Buffer
					_, err = system.VerifyingKey.WriteTo(&buf)
					if err != nil {
						return fmt.Errorf("failed to serialize verification key: %v", err)
					}

					err = os.MkdirAll(filepath.Dir(outputFile), 0755)
					if err != nil {
						return fmt.Errorf("failed to create output directory: %v", err)
					}

					err = os.WriteFile(outputFile, buf.Bytes(), 0644)
					if err != nil {
						return fmt.Errorf("failed to write verification key to file: %v", err)
					}

					logging.Logger().Info().
						Str("file", outputFile).
						Int("bytes", buf.Len()).
						Msg("Verification key exported successfully")

					return nil
				},
			},
			{
				Name: "gen-test-params",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "set-a-size", Usage: "Size of set A", Required: true},
					&cli.UintFlag{Name: "set-b-size", Usage: "Size of set B", Required: true},
					&cli.UintFlag{Name: "intersection-size", Usage: "Number of shared elements to plant", Required: true},
				},
				Action: func(context *cli.Context) error {
					setASize := uint32(context.Uint("set-a-size"))
					setBSize := uint32(context.Uint("set-b-size"))
					intersectionSize := uint32(context.Uint("intersection-size"))
					logging.Logger().Info().Msg("Generating test params for the intersection circuit")

					params, err := prover.BuildTestParameters(setASize, setBSize, intersectionSize)
					if err != nil {
						return err
					}
					r, err := json.Marshal(params)
					if err != nil {
						return err
					}

					fmt.Println(string(r))
					return nil
				},
			},
			{
				Name: "start",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Path to the TOML run configuration", Required: false},
					&cli.BoolFlag{Name: "json-logging", Usage: "enable JSON logging", Required: false},
					&cli.StringFlag{Name: "prover-address", Usage: "address for the prover server", Required: false},
					&cli.StringFlag{Name: "metrics-address", Usage: "address for the metrics server", Required: false},
					&cli.StringFlag{Name: "keys-dir", Usage: "Directory where key files are stored", Required: false},
					&cli.StringFlag{Name: "shapes", Usage: "Comma-separated list of set size pairs (e.g. \"4x4,8x8\")", Required: false},
				},
				Action: func(context *cli.Context) error {
					cfg := config.Default()
					if path := context.String("config"); path != "" {
						var err error
						cfg, err = config.ReadConfig(path)
						if err != nil {
							return err
						}
					}
					if addr := context.String("prover-address"); addr != "" {
						cfg.ProverAddress = addr
					}
					if addr := context.String("metrics-address"); addr != "" {
						cfg.MetricsAddress = addr
					}
					if dir := context.String("keys-dir"); dir != "" {
						cfg.KeysDir = dir
					}
					if context.Bool("json-logging") || cfg.JSONLogging {
						logging.SetJSONOutput()
					}

					shapes := configShapes(cfg)
					if input := context.String("shapes"); input != "" {
						var err error
						shapes, err = parseShapes(input)
						if err != nil {
							return err
						}
					}

					systems, err := prover.LoadKeys(cfg.KeysDir, shapes)
					if err != nil {
						return err
					}
					if len(systems) == 0 {
						return fmt.Errorf("no proving systems loaded")
					}

					encoder, err := encoding.NewEncoder(cfg.TextHash)
					if err != nil {
						return err
					}

					serverConfig := server.Config{
						ProverAddress:  cfg.ProverAddress,
						MetricsAddress: cfg.MetricsAddress,
					}
					instance := server.Run(&serverConfig, encoder, systems)
					sigint := make(chan os.Signal, 1)
					signal.Notify(sigint, os.Interrupt)
					<-sigint
					logging.Logger().Info().Msg("Received sigint, shutting down")
					instance.RequestStop()
					logging.Logger().Info().Msg("Waiting for server to close")
					instance.AwaitStop()
					return nil
				},
			},
			{
				Name: "prove",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keys-dir", Usage: "Directory where circuit key files are stored", Value: "./proving-keys/", Required: false},
					&cli.StringSliceFlag{Name: "keys-file", Aliases: []string{"k"}, Value: cli.NewStringSlice(), Usage: "Proving system file"},
					&cli.StringFlag{Name: "shapes", Usage: "Comma-separated list of set size pairs (e.g. \"4x4,8x8\")", Required: false},
					&cli.StringFlag{Name: "set-a", Usage: "Comma-separated elements of set A", Required: false},
					&cli.StringFlag{Name: "set-b", Usage: "Comma-separated elements of set B", Required: false},
					&cli.BoolFlag{Name: "text", Usage: "Treat every element as text, even numeric ones", Required: false},
					&cli.StringFlag{Name: "hash", Usage: "Text hash (\"blake2b\" / \"poseidon\")", Value: encoding.HashBlake2b, Required: false},
					&cli.StringFlag{Name: "count", Usage: "Claimed intersection size, or \"auto\" to compute it", Value: "auto", Required: false},
					&cli.StringFlag{Name: "proof-out", Usage: "File for the raw proof bytes", Required: false},
					&cli.StringFlag{Name: "public-out", Usage: "File for the public input bytes", Required: false},
				},
				Action: func(context *cli.Context) error {
					systems, err := loadSystemsByArgs(context)
					if err != nil {
						return err
					}
					if len(systems) == 0 {
						return fmt.Errorf("no proving systems loaded")
					}

					var params prover.PsiParameters
					if context.String("set-a") != "" || context.String("set-b") != "" {
						params, err = parametersFromFlags(context)
						if err != nil {
							return err
						}
					} else {
						logging.Logger().Info().Msg("Reading params from stdin")
						inputsBytes, err := io.ReadAll(os.Stdin)
						if err != nil {
							return err
						}
						err = json.Unmarshal(inputsBytes, &params)
						if err != nil {
							return err
						}
					}

					var system *prover.ProvingSystem
					for _, candidate := range systems {
						if candidate.SetASize == params.SetASize() && candidate.SetBSize == params.SetBSize() {
							system = candidate
							break
						}
					}
					if system == nil {
						return fmt.Errorf("no proving system for set sizes %d and %d", params.SetASize(), params.SetBSize())
					}

					proof, err := system.ProvePsi(&params)
					if err != nil {
						return err
					}
					r, _ := json.Marshal(proof)
					fmt.Println(string(r))

					if path := context.String("proof-out"); path != "" {
						raw, err := proof.WriteRawBytes()
						if err != nil {
							return err
						}
						err = os.WriteFile(path, raw, 0644)
						if err != nil {
							return err
						}
						logging.Logger().Info().Str("file", path).Int("bytes", len(raw)).Msg("Raw proof written to file")
					}
					if path := context.String("public-out"); path != "" {
						err = os.WriteFile(path, encoding.PublicCountBytes(uint64(params.IntersectionSize)), 0644)
						if err != nil {
							return err
						}
						logging.Logger().Info().Str("file", path).Msg("Public input written to file")
					}

					return nil
				},
			},
			{
				Name: "verify",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keys-file", Aliases: []string{"k"}, Usage: "proving system file", Required: true},
					&cli.UintFlag{Name: "count", Usage: "Claimed intersection size", Required: true},
				},
				Action: func(context *cli.Context) error {
					keys := context.String("keys-file")
					count := uint32(context.Uint("count"))

					system, err := prover.ReadSystemFromFile(keys)
					if err != nil {
						return fmt.Errorf("failed to read proving system: %v", err)
					}

					logging.Logger().Info().Msg("Reading proof from stdin")
					proofBytes, err := io.ReadAll(os.Stdin)
					if err != nil {
						return fmt.Errorf("failed to read proof from stdin: %v", err)
					}

					var proof prover.Proof
					err = json.Unmarshal(proofBytes, &proof)
					if err != nil {
						return fmt.Errorf("failed to unmarshal proof: %v", err)
					}

					err = system.VerifyPsi(count, &proof)
					if err != nil {
						return fmt.Errorf("verification failed: %v", err)
					}

					logging.Logger().Info().Uint32("intersectionSize", count).Msg("Verification completed successfully")
					return nil
				},
			},
			{
				Name: "benchmark",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shapes", Usage: "Comma-separated list of set size pairs (e.g. \"4x4,8x8\")", Required: false},
					&cli.IntFlag{Name: "runs", Usage: "Number of prove/verify runs per shape", Value: 1, Required: false},
					&cli.StringFlag{Name: "output", Usage: "HTML report file", Value: "benchmark-report.html", Required: false},
				},
				Action: func(context *cli.Context) error {
					shapes := prover.DefaultShapes()
					if input := context.String("shapes"); input != "" {
						var err error
						shapes, err = parseShapes(input)
						if err != nil {
							return err
						}
					}

					results, err := benchmark.Run(shapes, context.Int("runs"))
					if err != nil {
						return err
					}

					path := context.String("output")
					err = benchmark.WriteReport(results, path)
					if err != nil {
						return err
					}
					logging.Logger().Info().Str("file", path).Msg("Benchmark report written")
					return nil
				},
			},
			{
				Name: "extract-circuit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Usage: "Output file", Required: true},
					&cli.UintFlag{Name: "set-a-size", Usage: "Size of set A", Required: true},
					&cli.UintFlag{Name: "set-b-size", Usage: "Size of set B", Required: true},
				},
				Action: func(context *cli.Context) error {
					path := context.String("output")
					setASize := uint32(context.Uint("set-a-size"))
					setBSize := uint32(context.Uint("set-b-size"))
					logging.Logger().Info().Msg("Extracting gnark circuit to Lean")
					circuitString, err := prover.ExtractLean(setASize, setBSize)
					if err != nil {
						return err
					}
					file, err := os.Create(path)
					if err != nil {
						return err
					}
					defer func(file *os.File) {
						err := file.Close()
						if err != nil {
							logging.Logger().Error().Err(err).Msg("error closing file")
						}
					}(file)
					written, err := file.WriteString(circuitString)
					if err != nil {
						return err
					}
					logging.Logger().Info().Int("bytesWritten", written).Msg("Lean circuit written to file")

					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Logger().Fatal().Err(err).Msg("App failed.")
	}
}

func loadSystemsByArgs(context *cli.Context) ([]*prover.ProvingSystem, error) {
	keysFiles := context.StringSlice("keys-file")
	if len(keysFiles) > 0 {
		var systems []*prover.ProvingSystem
		for _, key := range keysFiles {
			logging.Logger().Info().Msg("Reading proving system from file " + key + "...")
			system, err := prover.ReadSystemFromFile(key)
			if err != nil {
				return nil, err
			}
			systems = append(systems, system)
			logging.Logger().Info().
				Uint32("setASize", system.SetASize).
				Uint32("setBSize", system.SetBSize).
				Msg("Read ProvingSystem")
		}
		return systems, nil
	}

	shapes := prover.DefaultShapes()
	if input := context.String("shapes"); input != "" {
		var err error
		shapes, err = parseShapes(input)
		if err != nil {
			return nil, err
		}
	}
	return prover.LoadKeys(context.String("keys-dir"), shapes)
}

// parametersFromFlags assembles circuit parameters from the set-a / set-b
// flag lists. The claimed count defaults to the true cardinality so the
// common case needs no counting by hand.
func parametersFromFlags(context *cli.Context) (prover.PsiParameters, error) {
	setAInput := context.String("set-a")
	setBInput := context.String("set-b")
	if setAInput == "" || setBInput == "" {
		return prover.PsiParameters{}, fmt.Errorf("both set-a and set-b must be provided")
	}

	parse := encoding.ParseSet
	if context.Bool("text") {
		parse = encoding.ParseTextSet
	}
	valuesA, err := parse(setAInput)
	if err != nil {
		return prover.PsiParameters{}, err
	}
	valuesB, err := parse(setBInput)
	if err != nil {
		return prover.PsiParameters{}, err
	}

	encoder, err := encoding.NewEncoder(context.String("hash"))
	if err != nil {
		return prover.PsiParameters{}, err
	}
	setA, err := encoder.Set(valuesA)
	if err != nil {
		return prover.PsiParameters{}, err
	}
	setB, err := encoder.Set(valuesB)
	if err != nil {
		return prover.PsiParameters{}, err
	}

	count := context.String("count")
	var intersectionSize uint32
	if count == "auto" {
		intersectionSize = prover.IntersectionCount(setA, setB)
	} else {
		parsed, err := strconv.ParseUint(count, 10, 32)
		if err != nil {
			return prover.PsiParameters{}, fmt.Errorf("invalid count %q: %v", count, err)
		}
		intersectionSize = uint32(parsed)
	}

	return prover.PsiParameters{SetA: setA, SetB: setB, IntersectionSize: intersectionSize}, nil
}

func configShapes(cfg config.Config) []prover.Shape {
	if len(cfg.Shapes) == 0 {
		return prover.DefaultShapes()
	}
	shapes := make([]prover.Shape, len(cfg.Shapes))
	for i, s := range cfg.Shapes {
		shapes[i] = prover.Shape{SetASize: s.SetASize, SetBSize: s.SetBSize}
	}
	return shapes
}

func parseShapes(input string) ([]prover.Shape, error) {
	var shapes []prover.Shape
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		parts := strings.Split(token, "x")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid shape %q, expected AxB", token)
		}
		setASize, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid shape %q: %v", token, err)
		}
		setBSize, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid shape %q: %v", token, err)
		}
		shapes = append(shapes, prover.Shape{SetASize: uint32(setASize), SetBSize: uint32(setBSize)})
	}
	return shapes, nil
}
