// Package openai talks to any server speaking the OpenAI chat and
// embeddings protocol through langchaingo: OpenAI itself, or a local
// Ollama, LocalAI or vLLM instance. The oracle reads listing text and
// photos. Walkthrough videos are rejected with ai.ErrUnsupportedMedia and
// need the gemini backend.
//
// Embedding and oracle traffic may go to different hosts:
//
//	provider, err := openai.NewProvider(ai.NewConfig(
//	    ai.WithEmbeddingHost("http://localhost:11434"), // /v1 is appended
//	    ai.WithOracleHost("http://gpu-box:8000/v1"),
//	    ai.WithOracleModel("qwen2.5vl:7b"),
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
package openai
