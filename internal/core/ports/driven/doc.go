// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Generates vector embeddings for corpus chunks and queries
//   - LLMService: Tool-calling chat completions for the recommendation agent
//   - CandidateIndex: Embedded chunk storage with filtered similarity search
//   - PosterCatalog: External movie catalog used for poster artwork
//   - CorpusSource: Raw corpus loading (local file, object storage)
//   - PostProcessor: Record chunking and enrichment
//   - ConfigStore: Application configuration
//   - PromptStore: Customisable prompt templates
//
// PosterCatalog is optional. Without it recommendations carry no poster.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or post-processor package
package driven
