package engine

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/layer"
)

var _ = Describe("Advance", func() {
	var (
		e     Engine
		c     constants.Record
		start layer.Layer
	)

	BeforeEach(func() {
		var err error
		c = constants.Morris()
		e, err = New(c)
		Expect(err).NotTo(HaveOccurred())
		start = layer.Initial(c)
	})

	Context("within a layer", func() {
		It("decays the labile stock before adding turnover", func() {
			out, _, err := e.Advance([]layer.Layer{start}, 0, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())

			turnover := c.FL() * c.K2 * start.Biomass
			decayFirst := start.Labile*math.Exp(-c.K) + turnover
			addFirst := (start.Labile + turnover) * math.Exp(-c.K)

			Expect(out[0].Labile).To(BeNumerically("~", decayFirst, 1e-12))
			Expect(out[0].Labile).NotTo(BeNumerically("~", addFirst, 1e-6))
		})

		It("erodes after the stocks have grown", func() {
			out, _, err := e.Advance([]layer.Layer{start}, -3, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())

			keep := 1 - 3/start.Depth()
			refractory := (start.Refractory + c.FC*c.K2*start.Biomass) * keep
			Expect(out[0].Refractory).To(BeNumerically("~", refractory, 1e-12))
		})

		It("re-derives live biomass over the new interval", func() {
			out, _, err := e.Advance([]layer.Layer{start}, 0, 0.02, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(out[0].Biomass).To(BeNumerically("~", layer.LiveBiomass(c, 0.02, out[0].Top, out[0].Bottom), 1e-12))
		})
	})

	Context("across layers", func() {
		var column []layer.Layer

		BeforeEach(func() {
			one, _, err := e.Advance([]layer.Layer{start}, 1, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())
			column = one
		})

		It("starts each layer where the one above ended", func() {
			out, _, err := e.Advance(column, 0.5, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(out[0].Top).To(BeZero())
			for i := 1; i < len(out); i++ {
				Expect(out[i].Top).To(Equal(out[i-1].Bottom))
			}
		})

		It("passes erosion left over by one layer to the next", func() {
			out, flux, err := e.Advance(column, -1.25, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(1))
			Expect(flux.Collapsed).To(Equal(1))

			below, _, err := e.Advance(column[1:], -0.25, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(below))
		})

		It("gives a different column when processed bottom-up", func() {
			topDown, _, err := e.Advance(column, 0.5, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())

			reversed := []layer.Layer{
				{Top: 0, Bottom: column[1].Depth(), Biomass: column[1].Biomass, Stocks: column[1].Stocks},
				{Top: column[1].Depth(), Bottom: column[1].Depth() + column[0].Depth(), Biomass: column[0].Biomass, Stocks: column[0].Stocks},
			}
			bottomUp, _, err := e.Advance(reversed, 0.5, c.RO, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(bottomUp).NotTo(Equal(topDown))
		})
	})
})
