package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/BrianJenney/brian-clone/pkg/cli/config"
	"github.com/BrianJenney/brian-clone/pkg/domain/interfaces"
	"github.com/BrianJenney/brian-clone/pkg/domain/model"
	"github.com/BrianJenney/brian-clone/pkg/domain/types"
	"github.com/BrianJenney/brian-clone/pkg/service/chunk"
	"github.com/BrianJenney/brian-clone/pkg/service/youtube"
)

// ingestItem is one logical document headed for the semantic store
type ingestItem struct {
	baseID   string
	text     string
	metadata map[string]string
}

func cmdIngest() *cli.Command {
	var collectionName string
	var fromYouTube bool
	var llmCfg config.LLM
	var storeCfg config.Store

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "collection",
			Usage:       "Target collection (articles, posts, transcripts)",
			Required:    true,
			Sources:     cli.EnvVars("BRIANCLONE_COLLECTION"),
			Destination: &collectionName,
		},
		&cli.BoolFlag{
			Name:        "youtube",
			Usage:       "Treat arguments as YouTube video IDs and ingest their transcripts",
			Sources:     cli.EnvVars("BRIANCLONE_INGEST_YOUTUBE"),
			Destination: &fromYouTube,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)

	return &cli.Command{
		Name:      "ingest",
		Usage:     "Chunk, embed and upsert content into the semantic store",
		ArgsUsage: "<file|video-id>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			collection, err := types.ParseCollection(collectionName)
			if err != nil {
				return goerr.Wrap(config.ErrInvalidConfig, "invalid collection", goerr.V("collection", collectionName))
			}
			if fromYouTube && collection != types.CollectionTranscripts {
				return goerr.Wrap(config.ErrInvalidConfig, "YouTube transcripts only ingest into the transcripts collection",
					goerr.V("collection", collectionName))
			}

			args := c.Args().Slice()
			if len(args) == 0 {
				return goerr.New("at least one content file or video ID is required")
			}

			gateway, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM gateway")
			}

			store, err := storeCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure semantic store")
			}
			defer store.Close() //nolint:errcheck // read path is done at this point

			for _, arg := range args {
				item, err := loadItem(ctx, arg, fromYouTube)
				if err != nil {
					return err
				}

				if err := ingestText(ctx, gateway, store, collection, item); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

// loadItem resolves one CLI argument into ingestable content: a local file by
// path, or a video transcript by ID.
func loadItem(ctx context.Context, arg string, fromYouTube bool) (ingestItem, error) {
	if fromYouTube {
		color.Cyan("Fetching transcript for %s", arg)

		text, err := youtube.NewTranscriptClient().Fetch(ctx, arg)
		if err != nil {
			return ingestItem{}, goerr.Wrap(err, "failed to fetch transcript", goerr.V("videoID", arg))
		}
		return ingestItem{
			baseID: arg,
			text:   text,
			metadata: map[string]string{
				"sourceUrl": "https://www.youtube.com/watch?v=" + arg,
			},
		}, nil
	}

	color.Cyan("Ingesting %s", arg)

	data, err := os.ReadFile(arg)
	if err != nil {
		return ingestItem{}, goerr.Wrap(err, "failed to read content file", goerr.V("path", arg))
	}

	baseID := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	return ingestItem{
		baseID:   baseID,
		text:     string(data),
		metadata: map[string]string{"title": baseID},
	}, nil
}

// ingestText chunks, embeds and upserts one logical document
func ingestText(ctx context.Context, gateway interfaces.Gateway, store interfaces.SemanticStore, collection types.Collection, item ingestItem) error {
	chunks := chunk.Split(item.text, chunk.DefaultMaxSize)

	points := make([]model.Point, 0, len(chunks))
	for _, ch := range chunks {
		vector, err := gateway.Embed(ctx, ch.Text)
		if err != nil {
			return goerr.Wrap(err, "failed to embed chunk",
				goerr.V("baseID", item.baseID),
				goerr.V("chunk", ch.Index),
			)
		}
		points = append(points, model.Point{
			ID:     model.NewPointID(),
			Vector: vector,
			Payload: model.Payload{
				Text:        ch.Text,
				ContentType: collection.String(),
				BaseID:      item.baseID,
				ChunkIndex:  ch.Index,
				TotalChunks: ch.Total,
				Metadata:    item.metadata,
			},
		})
	}

	if err := store.Upsert(ctx, collection, points); err != nil {
		return goerr.Wrap(err, "failed to upsert points", goerr.V("baseID", item.baseID))
	}

	color.Green("  done: %d chunks", len(points))
	return nil
}
