// api/enrich/enrich.go
package enrich

import (
	"log"
	"net"

	"github.com/mileusna/useragent"
	"github.com/oschwald/geoip2-golang"
)

// Enricher resolves a client address to a coarse location and a declared
// user-agent string to browser/OS/device type. Both lookups are pure and
// side-effect free; every failure degrades to nils or defaults, never to an
// error the caller has to handle.
type Enricher struct {
	geo *geoip2.Reader
}

// NewEnricher opens the GeoLite2-City database at dbPath. An empty path or
// an unreadable file yields a working enricher whose geo lookups all resolve
// to nil; analytics must not depend on the mmdb being deployed.
func NewEnricher(dbPath string) *Enricher {
	if dbPath == "" {
		log.Println("Enricher: no GeoIP database configured, geo lookups disabled")
		return &Enricher{}
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		log.Printf("Enricher: could not open GeoIP database %q, geo lookups disabled: %v", dbPath, err)
		return &Enricher{}
	}

	return &Enricher{geo: reader}
}

func (e *Enricher) Close() {
	if e.geo != nil {
		e.geo.Close()
	}
}

// Lookup returns the country and city for an address, or nils when the
// address is unresolvable (private/loopback ranges, malformed input,
// disabled database).
func (e *Enricher) Lookup(address string) (country, city *string) {
	if e.geo == nil {
		return nil, nil
	}

	ip := net.ParseIP(address)
	if ip == nil || ip.IsPrivate() || ip.IsLoopback() {
		return nil, nil
	}

	record, err := e.geo.City(ip)
	if err != nil {
		return nil, nil
	}

	if name := record.Country.Names["en"]; name != "" {
		country = &name
	}
	if name := record.City.Names["en"]; name != "" {
		city = &name
	}
	return country, city
}

// ParseUserAgent breaks a declared user-agent string into browser, OS and
// device type. Device type defaults to "desktop" when the parser reports
// neither mobile nor tablet, which covers typical desktop traffic and the
// empty string alike.
func (e *Enricher) ParseUserAgent(uaString string) (browser, os, deviceType string) {
	ua := useragent.Parse(uaString)

	deviceType = "desktop"
	switch {
	case ua.Mobile:
		deviceType = "mobile"
	case ua.Tablet:
		deviceType = "tablet"
	}

	return ua.Name, ua.OS, deviceType
}
