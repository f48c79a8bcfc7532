package cmd

import (
	"github.com/yuvraj20122008-del/autofix-my-code/internal/pipeline"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/tui"
)

func runTUI() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	last, err := st.GetMeta(pipeline.LastSourceKey)
	if err != nil {
		logger.Warn().Err(err).Msg("read last source")
	}

	pc := pipelineConfig()
	pc.Store = st

	return tui.Run(tui.Config{
		Pipeline:        pc,
		LLMURL:          cfg.LLM.URL,
		Model:           cfg.LLM.Model,
		LLMTimeout:      cfg.LLM.Timeout,
		MaxContentChars: cfg.LLM.MaxContentChars,
		Source:          last,
	})
}
