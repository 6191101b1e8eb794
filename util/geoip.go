package util

import (
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

// Place names are taken in the first locale the database carries.
var geoipLocales = []string{"pt-BR", "en"}

// IPLocation is the resolved city and country of an address.
type IPLocation struct {
	City    string
	Country string
}

// String formats the location as "City/Country", or whichever part is known.
func (l IPLocation) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + "/" + l.Country
	case l.Country != "":
		return l.Country
	}
	return l.City
}

// GeoIPCacheStats counts lookups served from the cache and from the reader.
type GeoIPCacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

type geoLocator struct {
	mu     sync.RWMutex
	reader *geoip2.Reader
	cache  *cache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

var geoip = &geoLocator{}

// InitGeoIP opens a GeoIP2/GeoLite2 City .mmdb file. An empty path falls back
// to GEOIP_DB_PATH, and when both are empty lookups stay disabled.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}

	geoip.mu.Lock()
	defer geoip.mu.Unlock()
	if geoip.reader != nil {
		_ = geoip.reader.Close()
	}
	geoip.reader = r
	geoip.cache = cache.New(24*time.Hour, time.Hour)
	return nil
}

// CloseGeoIP closes the reader and drops the cache.
func CloseGeoIP() {
	geoip.mu.Lock()
	defer geoip.mu.Unlock()
	if geoip.reader != nil {
		_ = geoip.reader.Close()
	}
	geoip.reader = nil
	geoip.cache = nil
}

func isLocalIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}

func localizedName(names map[string]string) string {
	for _, locale := range geoipLocales {
		if n := names[locale]; n != "" {
			return n
		}
	}
	return ""
}

// GetIPLocation resolves ip with the GeoIP database. Private, loopback and
// unparsable addresses, or a missing database, yield an empty location.
// Addresses the database does not know are cached as empty too.
func GetIPLocation(ip string) IPLocation {
	parsed := net.ParseIP(ip)
	if parsed == nil || isLocalIP(parsed) {
		return IPLocation{}
	}

	geoip.mu.RLock()
	defer geoip.mu.RUnlock()
	if geoip.cache != nil {
		if v, ok := geoip.cache.Get(ip); ok {
			geoip.hits.Add(1)
			return v.(IPLocation)
		}
	}
	geoip.misses.Add(1)
	if geoip.reader == nil {
		return IPLocation{}
	}

	var loc IPLocation
	if rec, err := geoip.reader.City(parsed); err == nil {
		loc = IPLocation{City: localizedName(rec.City.Names), Country: localizedName(rec.Country.Names)}
		if loc.Country == "" {
			loc.Country = rec.Country.IsoCode
		}
	}
	geoip.cache.Set(ip, loc, cache.DefaultExpiration)
	return loc
}

// GetGeoIPCacheMetrics reports cache effectiveness since process start.
func GetGeoIPCacheMetrics() GeoIPCacheStats {
	geoip.mu.RLock()
	defer geoip.mu.RUnlock()
	s := GeoIPCacheStats{Hits: geoip.hits.Load(), Misses: geoip.misses.Load()}
	if geoip.cache != nil {
		s.Size = geoip.cache.ItemCount()
	}
	return s
}
