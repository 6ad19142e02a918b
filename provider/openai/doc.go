/*
Package openai implements provider.Provider on top of the OpenAI chat
completions API. Any OpenAI compatible endpoint works, which includes the
/v1 endpoint of a local Ollama server:

	p := openai.New("llama", "llama3.2",
		openai.Name("Llama 3.2"),
		openai.Local(true),
		openai.RequestOptions(option.WithBaseURL("http://localhost:11434/v1/"), option.WithAPIKey("ollama")),
	)

# Streaming

Every Stream call opens its own streaming completion and forwards the text
delta of the first choice. Chunks without choices or without content (role
announcements, usage reports) are dropped. The stream is closed on every exit
path, including when the caller stops ranging early.
*/
package openai
