package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/max-de-bug/portion-app-sub001/pkg/audit"
	"github.com/max-de-bug/portion-app-sub001/pkg/balances"
	"github.com/max-de-bug/portion-app-sub001/pkg/chain"
	"github.com/max-de-bug/portion-app-sub001/pkg/facilitator"
	"github.com/max-de-bug/portion-app-sub001/pkg/handlers"
	"github.com/max-de-bug/portion-app-sub001/pkg/handlers/ledgerapi"
	wshandler "github.com/max-de-bug/portion-app-sub001/pkg/handlers/websockets"
	"github.com/max-de-bug/portion-app-sub001/pkg/handlers/x402"
	"github.com/max-de-bug/portion-app-sub001/pkg/handlers/yieldapi"
	"github.com/max-de-bug/portion-app-sub001/pkg/ledger"
	"github.com/max-de-bug/portion-app-sub001/pkg/middleware"
	"github.com/max-de-bug/portion-app-sub001/pkg/payments"
	"github.com/max-de-bug/portion-app-sub001/pkg/scheduler"
	"github.com/max-de-bug/portion-app-sub001/pkg/storage"
	dydbstore "github.com/max-de-bug/portion-app-sub001/pkg/storage/dynamodb"
	"github.com/max-de-bug/portion-app-sub001/pkg/websockets"
	"github.com/max-de-bug/portion-app-sub001/pkg/yield"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Chain balance resolution.
	network := chain.Network(envOr("SOLANA_NETWORK", string(chain.NetworkMainnet)))
	rpcOverride := os.Getenv("SOLANA_RPC_URL")
	resolver := chain.NewResolver(chain.MainnetPool(rpcOverride), chain.DevnetPool(rpcOverride))
	balanceService := balances.New(resolver, network)
	balanceService.StartRefresh(ctx, 30*time.Second)

	// Yield sources and the APY oracle.
	vaultAPI := envOr("VAULT_API_URL", "https://api.portionvaults.io")
	aggregatorAPI := envOr("APY_AGGREGATOR_URL", "https://yields.llama.fi")
	oracle := yield.NewOracle(vaultAPI, aggregatorAPI)
	aggregator := yield.NewAggregator(
		yield.NewStakingVaultSource(vaultAPI),
		yield.NewLiquidWrapperSource(envOr("WRAPPER_API_URL", vaultAPI)),
		yield.NewLPRewardsSource(envOr("LP_API_URL", vaultAPI)),
	)

	var positions yield.PositionProvider
	vaultPositions := yield.NewVaultPositions(vaultAPI)
	positions = vaultPositions
	if demo, _ := strconv.ParseBool(os.Getenv("DEMO_MODE")); demo {
		slog.Warn("demo mode active, spendable yield is simulated")
		positions = &yield.DemoPositions{Amount: 12.5}
	}

	// Optional DynamoDB persistence. Without it the ledger and audit log
	// live in process memory only.
	var store storage.Storage
	var connManager websockets.ConnectionManager = websockets.NewMemoryConnections()
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	auditTable := os.Getenv("DYNAMODB_AUDIT_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	var awsConfigured bool
	if transactionsTable != "" && auditTable != "" && connectionsTable != "" {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		awsConfigured = true

		dydb := dydbstore.New(dynamodb.NewFromConfig(cfg), transactionsTable, auditTable, connectionsTable)
		store = dydb
		connManager = dydb
	}

	// WebSocket fan-out: API Gateway in a deployed topology, an in-process
	// hub locally.
	var publisher websockets.Publisher
	hub := websockets.NewLocalHub()
	publisher = hub
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		getter, ok := connManager.(websockets.AllConnectionsGetter)
		if !ok {
			log.Fatal("WEBSOCKET_API_ENDPOINT requires DynamoDB connection storage")
		}
		p, err := websockets.NewPublisher(getter, connManager, endpoint)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
		publisher = p
	}

	// Scheduler for the deferred status progression.
	var sched scheduler.Scheduler
	timerSched := &scheduler.TimerScheduler{}
	sched = timerSched
	if queueURL := os.Getenv("SQS_QUEUE_URL"); queueURL != "" {
		if !awsConfigured {
			log.Fatal("SQS_QUEUE_URL requires DynamoDB persistence to be configured")
		}
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		sched = scheduler.NewSQSScheduler(sqs.NewFromConfig(cfg), queueURL)
	}

	var txStore storage.TransactionStore
	var auditStore storage.AuditStore
	if store != nil {
		txStore = store
		auditStore = store
	}

	txLedger := ledger.New(sched, txStore, publisher)
	timerSched.Applier = txLedger
	if err := txLedger.Load(ctx); err != nil {
		slog.Error("failed to hydrate ledger", "error", err)
	}

	auditLog := audit.New(auditStore)
	if err := auditLog.Load(ctx); err != nil {
		slog.Error("failed to hydrate audit log", "error", err)
	}

	// The payment pipeline.
	fac := facilitator.New(os.Getenv("FACILITATOR_URL"))
	orchestrator := payments.New(
		txLedger,
		auditLog,
		fac,
		positions,
		payments.DefaultCatalog(),
		envOr("PAY_TO_ADDRESS", "BXVyRduVD7YQBibCrfDr2wGCoVEpaBcvMpLpe3Wgb3Mp"),
		envOr("X402_NETWORK", "solana"),
		envOr("ASSET_ADDRESS", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
	)

	corsDebug, _ := strconv.ParseBool(os.Getenv("CORS_DEBUG"))
	router := handlers.NewRouter(handlers.Deps{
		Yield: yieldapi.NewHandler(
			oracle, positions, vaultPositions, balanceService, aggregator,
			envOr("APY_PROTOCOL", "portion-vaults"),
			envOr("YIELD_TOKEN", "USDV"),
		),
		X402:       x402.NewHandler(orchestrator, positions, envOr("X402_NETWORK", "solana")),
		Ledger:     ledgerapi.NewHandler(txLedger, auditLog),
		WebSockets: wshandler.NewHandler(connManager, hub),
		CORS:       middleware.NewCORSConfig(os.Getenv("CORS_ALLOWED_ORIGINS"), corsDebug),
		Logger:     logger,
	})

	port := envOr("HTTP_PORT", "8080")
	log.Printf("Starting server on port %s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
