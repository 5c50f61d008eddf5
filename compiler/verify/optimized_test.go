package verify_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/southwarridev/ovie-sub003/compiler/mir"
	"github.com/southwarridev/ovie-sub003/compiler/verify"
)

var _ = Describe("OptimizedMIR", func() {
	var (
		bld *mir.Builder
		p   *mir.Program
	)

	BeforeEach(func() {
		bld = buildMain()
		p = bld.Program()
	})

	It("accepts a well-formed program", func() {
		Expect(verify.OptimizedMIR(p)).To(BeEmpty())
	})

	Context("with an unreachable block", func() {
		It("reports the block by id and function by name", func() {
			main := funcNamed(p, "main")

			orphan := bld.NewBlock(main, "orphan")
			bld.Ret(orphan, nil)

			vs := verify.OptimizedMIR(p)

			Expect(vs).To(HaveLen(1))
			Expect(vs[0].Stage).To(Equal(verify.StageOptimized))
			Expect(vs[0].Message).To(Equal(fmt.Sprintf("Unreachable basic block `%v` in function `main`", orphan.ID)))
			Expect(vs[0].Func).To(Equal(main.ID))
			Expect(vs[0].Block).To(Equal(orphan.ID))
		})

		It("reports every block of an unreachable cycle", func() {
			main := funcNamed(p, "main")

			a := bld.NewBlock(main, "spin")
			c := bld.NewBlock(main, "spin.back")

			bld.Jump(a, c.ID)
			bld.Jump(c, a.ID)

			vs := verify.OptimizedMIR(p)

			Expect(vs).To(HaveLen(2))
			Expect(vs[0].Block).To(Equal(a.ID))
			Expect(vs[1].Block).To(Equal(c.ID))
		})
	})

	Context("with leftover constant arithmetic", func() {
		It("reports the instruction the optimizer missed", func() {
			main := funcNamed(p, "main")

			entry, err := main.Block(main.Entry)
			Expect(err).NotTo(HaveOccurred())

			r, err := bld.Append(main, entry, mir.Mul, mir.Int, mir.IntConst(6), mir.IntConst(7))
			Expect(err).NotTo(HaveOccurred())

			vs := verify.OptimizedMIR(p)

			Expect(vs).To(HaveLen(1))
			Expect(vs[0].Message).To(Equal(fmt.Sprintf("Constant folding not applied at instruction `%v`", int(r))))
			Expect(vs[0].Instr).To(Equal(mir.InstrID(r)))
		})

		It("does not flag constant comparisons", func() {
			main := funcNamed(p, "main")

			entry, err := main.Block(main.Entry)
			Expect(err).NotTo(HaveOccurred())

			_, err = bld.Append(main, entry, mir.Le, mir.Bool, mir.IntConst(1), mir.IntConst(2))
			Expect(err).NotTo(HaveOccurred())

			Expect(verify.OptimizedMIR(p)).To(BeEmpty())
		})

		It("does not flag arithmetic over an instruction result", func() {
			inc := funcNamed(p, "inc")

			entry, err := inc.Block(inc.Entry)
			Expect(err).NotTo(HaveOccurred())

			_, err = bld.Append(inc, entry, mir.Add, mir.Int, mir.Ref(1), mir.IntConst(3))
			Expect(err).NotTo(HaveOccurred())

			Expect(verify.OptimizedMIR(p)).To(BeEmpty())
		})
	})

	Context("with broken control flow", func() {
		It("reports a function without entry block", func() {
			f := bld.NewFunc("headless")
			bld.SetRet(f, mir.Void)

			vs := verify.OptimizedMIR(p)

			Expect(vs).To(HaveLen(1))
			Expect(vs[0].Message).To(Equal("Function `headless` has no entry block"))
			Expect(vs[0].Func).To(Equal(f.ID))
		})

		It("reports a block without terminator", func() {
			f := bld.NewFunc("partial")
			bld.SetRet(f, mir.Void)

			blk := bld.NewBlock(f, "entry")

			vs := verify.OptimizedMIR(p)

			Expect(vs).To(HaveLen(1))
			Expect(vs[0].Message).To(Equal(fmt.Sprintf("Basic block `%v` in function `partial` has no terminator", blk.ID)))
		})

		It("reports terminator targets that do not exist", func() {
			main := funcNamed(p, "main")

			entry, err := main.Block(main.Entry)
			Expect(err).NotTo(HaveOccurred())

			bld.Jump(entry, mir.BlockID(99))

			vs := verify.OptimizedMIR(p)

			Expect(vs).To(HaveLen(3))
			Expect(vs[0].Message).To(ContainSubstring("references unknown block `99`"))
			Expect(vs[1].Message).To(ContainSubstring("Unreachable basic block `1`"))
			Expect(vs[2].Message).To(ContainSubstring("Unreachable basic block `2`"))
		})

		It("reports blocks orphaned by a deleted predecessor target", func() {
			main := funcNamed(p, "main")

			more, err := main.Block(mir.BlockID(1))
			Expect(err).NotTo(HaveOccurred())

			done, err := main.Block(mir.BlockID(2))
			Expect(err).NotTo(HaveOccurred())

			entry, err := main.Block(main.Entry)
			Expect(err).NotTo(HaveOccurred())

			bld.Jump(entry, done.ID)

			vs := verify.OptimizedMIR(p)

			Expect(vs).To(HaveLen(1))
			Expect(vs[0].Block).To(Equal(more.ID))
		})
	})
})
