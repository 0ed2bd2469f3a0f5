// Package opsdash is the field operations dashboard of a fiber ISP.
//
// # Overview
//
// opsdash gives field technicians two panels over a static catalog:
//
//   - NAP directory: the network access points of the access network with
//     their port utilisation, filterable by municipality, state and free text,
//     and an install detail for the selected NAP.
//   - Job orders: the consumables in stock, where quantities are staged and
//     submitted as one job order that reserves stock atomically.
//
// # Architecture
//
//	┌─────────────────┐      ┌─────────────────┐
//	│   Web UI        │      │   CLI / client  │
//	│  (Templ/HTMX)   │      │   (Cobra)       │
//	└────────┬────────┘      └────────┬────────┘
//	         │                        │
//	┌────────▼────────────────────────▼────────┐
//	│  API Server (Echo REST + WebSocket)      │
//	└────────┬─────────────────────────────────┘
//	         │
//	┌────────▼────────┐
//	│  Dashboard      │──► directory engine (filter, select, aggregate)
//	│  session        │──► reservation engine (stage, validate, commit)
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐
//	│  Catalog (YAML) │
//	└─────────────────┘
//
// # Usage
//
// Start the server:
//
//	opsdash server --config opsdash.yaml
//
// Access the Web UI:
//
//	http://localhost:8080
//
// Query without a server:
//
//	opsdash naps list --municipality "San Andres"
//	opsdash stock reserve onu-huawei=5 onu-zte=3
//
// # Configuration
//
// Configuration can be provided via:
//   - YAML file (opsdash.yaml)
//   - Environment variables (OPS_ prefix)
//   - .env file
//
// Example configuration:
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	catalog:
//	  path: ./catalog.yaml
//	joborders:
//	  reference_prefix: JO-2025-
//	  open_baseline: 3
//	  sequence_baseline: 1287
//
// # API Endpoints
//
// NAP directory:
//   - GET  /api/v1/naps                  - Visible NAPs (paginated) and totals
//   - GET  /api/v1/naps/municipalities   - Municipality options
//   - GET  /api/v1/naps/active           - Selected NAP detail
//   - PUT  /api/v1/naps/filter           - Merge filter criteria
//   - POST /api/v1/naps/:id/select       - Select a visible NAP
//
// Job orders:
//   - GET    /api/v1/stock                - Stock rows and totals
//   - GET    /api/v1/joborders/draft      - Staged draft summary
//   - PUT    /api/v1/joborders/draft/:id  - Stage a quantity
//   - DELETE /api/v1/joborders/draft      - Clear staged quantities
//   - POST   /api/v1/joborders            - Submit the draft, or explicit lines
//
// Other:
//   - GET  /api/v1/stats                 - Combined statistics
//   - POST /api/v1/validate/catalog      - Validate a catalog document
//   - GET  /api/v1/ws                    - Live dashboard events
//   - GET  /metrics                      - Prometheus metrics
//   - GET  /docs/index.html              - Swagger UI
//
// # Technology Stack
//
//   - Echo v4 (Web framework)
//   - Templ (Type-safe templates)
//   - HTMX (Frontend interactivity)
//   - Cobra and Viper (CLI and configuration)
//   - Zap (Structured logging)
//   - Prometheus client (Metrics)
package opsdash
