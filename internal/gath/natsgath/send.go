package natsgath

import "encoding/json"

func (g *natsGatherer) send(msg interface{}) {
	b, err := json.Marshal(msg)
	if err != nil {
		g.log.Error("failed to marshal progress message", "error", err)
		return
	}

	if err := g.nc.Publish(g.subject, b); err != nil {
		g.log.Error("failed to publish progress message", "error", err)
	}
}
