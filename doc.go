/*
Package sonisync keeps an audio sonification of a chart consistent with the chart itself.

A host chart library owns the data and fires lifecycle hooks: after init, after every update, after a single series is shown or hidden, and on destroy. The Plugin reacts to those hooks and drives one sonification engine per chart, so that listeners hear exactly what sighted users see.

# Concept

Every data update is fingerprinted and compared with the last reconciled fingerprint. The comparison yields one of four verdicts:

  - Unchanged: nothing to do.
  - ScaleOnly: the data is the same but the layout pass produced axis bounds that were never applied; they are patched in place.
  - PureAppend: one series grew at its end; new points are appended (opt-in, see WithAppend).
  - Replace: anything else; data and axes are rebuilt and the listener's cursor is preserved.

Axis ranges come from the host's declared options first and from its computed layout second. Caller overrides always win.

# Usage

The host implements ports.Chart and calls the Plugin's hooks. The engine is supplied through an EngineFactory.

	plugin := sonisync.New(
		sonisync.WithEngineFactory(myEngineFactory),
		sonisync.WithLogger(logger),
	)

	plugin.AfterInit(ctx, chart, sonisync.Options{Lang: "en"})
	plugin.AfterUpdate(ctx, chart, sonisync.Options{Lang: "en"})

The memory adapter provides a complete in-process host and recording engine, used by the replay CLI and the HTTP service.
*/
package sonisync
