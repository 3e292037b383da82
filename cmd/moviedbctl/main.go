// Command moviedbctl queries the Catalog gRPC service of a running
// moviedbservice.
//
//	moviedbctl [-addr localhost:9092] movie|exists|actor|cast <id>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	catalog "moviedb-service/internal/grpc"
)

func main() {
	addr := flag.String("addr", "localhost:9092", "Catalog gRPC address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := run(*addr, flag.Args(), logger); err != nil {
		fmt.Fprintln(os.Stderr, "moviedbctl:", err)
		os.Exit(1)
	}
}

func run(addr string, args []string, logger *slog.Logger) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: moviedbctl [-addr host:port] movie|exists|actor|cast <id>")
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[1])
	}

	client, err := catalog.NewCatalogClient(addr, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()
	var out any
	switch args[0] {
	case "movie":
		out, err = client.GetMovie(ctx, id)
	case "exists":
		out, err = client.CheckMovieExists(ctx, id)
	case "actor":
		out, err = client.GetActor(ctx, id)
	case "cast":
		out, err = client.ListMovieActors(ctx, id)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		if catalog.IsNotFound(err) {
			return fmt.Errorf("%s %d not found", args[0], id)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
