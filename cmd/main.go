package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/codec"
	"github.com/dargueta/worldpack/utilities/compression"
	"github.com/dargueta/worldpack/world"
	"github.com/gocarina/gocsv"
	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

var log = logging.MustGetLogger("worldpack")

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{module} %{level:.4s} %{message}`,
)

func main() {
	codecFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "in",
			Usage:    "input file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "out",
			Usage:    "output file",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "world",
			Usage:   "world file the dictionary is derived from",
			Value:   worldpack.DefaultWorldFile,
			EnvVars: []string{"WORLDPACK_WORLD"},
		},
		&cli.StringFlag{
			Name: "extras-codec",
			Usage: fmt.Sprintf(
				"compressor for literal chunks, one of: %s",
				strings.Join(compression.Names(), ", "),
			),
			Value:   compression.DefaultName,
			EnvVars: []string{"WORLDPACK_EXTRAS_CODEC"},
		},
		&cli.StringFlag{
			Name:    "hash",
			Usage:   "dictionary derivation, sha256 or blake2b",
			Value:   world.SHA256Deriver{}.Name(),
			EnvVars: []string{"WORLDPACK_HASH"},
		},
	}

	app := cli.App{
		Name:  "worldpack",
		Usage: "Compress files against a world-keyed chunk dictionary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "one of CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG",
				Value:   "INFO",
				EnvVars: []string{"WORLDPACK_LOG_LEVEL"},
			},
		},
		Before: setUpLogging,
		Commands: []*cli.Command{
			{
				Name:   "compress",
				Usage:  "Compress a file into a container",
				Flags:  codecFlags,
				Action: compressFile,
			},
			{
				Name:   "decompress",
				Usage:  "Restore the original file from a container",
				Flags:  codecFlags,
				Action: decompressFile,
			},
			{
				Name:      "inspect",
				Usage:     "Print the field groups of a container's bitstream as CSV",
				ArgsUsage: "CONTAINER",
				Action:    inspectContainer,
			},
			{
				Name:      "genworld",
				Usage:     "Create a new random world file",
				ArgsUsage: "WORLD_FILE",
				Action:    generateWorld,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Criticalf("fatal error: %s", err.Error())
		os.Exit(1)
	}
}

func setUpLogging(context *cli.Context) error {
	level, err := logging.LogLevel(context.String("log-level"))
	if err != nil {
		return worldpack.ErrConfig.Wrap(err)
	}

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, logFormat))
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
	return nil
}

func optionsFromFlags(context *cli.Context) codec.Options {
	return codec.Options{
		WorldPath:   context.String("world"),
		ExtrasCodec: context.String("extras-codec"),
		Hash:        context.String("hash"),
	}
}

func compressFile(context *cli.Context) error {
	outputPath := context.String("out")
	stats, err := codec.CompressFile(context.String("in"), outputPath, optionsFromFlags(context))
	if err != nil {
		return err
	}

	fmt.Printf(
		"Wrote %s; orig %d bytes; chunks %d; bitstream_bytes %d; extras_chunks %d\n",
		outputPath,
		stats.OriginalLength,
		stats.Chunks,
		stats.BitstreamBytes,
		stats.ExtrasChunks,
	)
	if stats.OriginalLength > 0 {
		fmt.Printf(
			"Container is %d bytes (%.2f%% of original), %d of %d dictionary entries used\n",
			stats.ContainerBytes,
			float64(stats.ContainerBytes)/float64(stats.OriginalLength)*100,
			stats.EntriesUsed(),
			worldpack.MaxHomeType+1,
		)
	}
	return nil
}

func decompressFile(context *cli.Context) error {
	outputPath := context.String("out")
	report, err := codec.DecompressFile(context.String("in"), outputPath, optionsFromFlags(context))
	if err != nil {
		return err
	}

	if report.Degraded() {
		for _, warning := range report.Warnings.Errors {
			log.Warningf("%s", warning)
		}
	}
	fmt.Printf("Decompressed to %s\n", outputPath)
	return nil
}

func inspectContainer(context *cli.Context) error {
	if context.NArg() != 1 {
		return worldpack.ErrInvalidArgument.WithMessage("expected exactly one container path")
	}

	data, err := os.ReadFile(context.Args().First())
	if err != nil {
		return worldpack.ErrIOFailed.Wrap(err)
	}

	parsed, records, err := codec.Inspect(data)
	if err != nil {
		return err
	}
	log.Infof(
		"%d chunks, %d original bytes, %d-byte bitstream, %d-byte extras blob, marker found: %t",
		parsed.ChunkCount,
		parsed.OrigLen,
		len(parsed.Bitstream),
		len(parsed.Extras),
		parsed.MarkerFound,
	)
	return gocsv.Marshal(&records, os.Stdout)
}

func generateWorld(context *cli.Context) error {
	path := worldpack.DefaultWorldFile
	if context.NArg() > 0 {
		path = context.Args().First()
	}
	if _, err := os.Stat(path); err == nil {
		return worldpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("%s already exists, refusing to overwrite it", path))
	}

	w, err := world.Generate(rand.Reader)
	if err != nil {
		return err
	}
	if err = w.Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote new world to %s\n", path)
	return nil
}
